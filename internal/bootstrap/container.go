package bootstrap

import (
	"context"
	"log"
	"time"

	"klutr-be/internal/config"
	"klutr-be/internal/controller"
	"klutr-be/internal/pkg/logger"
	"klutr-be/internal/pkg/mailer"
	"klutr-be/internal/repository/unitofwork"
	"klutr-be/internal/service"
	"klutr-be/pkg/embedding"
	"klutr-be/pkg/llm/factory"
	pkgNats "klutr-be/pkg/nats"
	"klutr-be/pkg/usage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const embeddingCacheTTL = 15 * time.Minute

type Container struct {
	// Controllers
	JobController controller.IJobController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Core services exposed for programmatic use
	NoteService   service.INoteService
	ThreadService service.IThreadService
	BatchService  service.IBatchService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
		)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	// Identical content within the TTL hits the cache instead of the bill.
	embeddingProvider = embedding.NewCachedProvider(embeddingProvider, embeddingCacheTTL)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// 5. Services
	usageRecorder := usage.NewLogRecorder(sysLogger)

	classifier := service.NewChainClassifier(sysLogger,
		service.NewLLMClassifier(llmProvider, cfg.Ai.LLMModel, sysLogger),
	)
	enricher := service.NewNoteEnricher(embeddingProvider, classifier, usageRecorder, sysLogger)

	publisherService := service.NewPublisherService(cfg.Keys.EmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedTopic,
		uowFactory,
		enricher,
		embeddingProvider,
		usageRecorder,
		natsPub,
		sysLogger,
	)

	noteService := service.NewNoteService(uowFactory, publisherService, sysLogger)
	threadService := service.NewThreadService(
		uowFactory,
		publisherService,
		embeddingProvider,
		cfg.Organizer.SimilarityThreshold,
		cfg.Organizer.ThreadWindowSize,
		usageRecorder,
		sysLogger,
	)

	clusteringService := service.NewClusteringService(
		uowFactory,
		enricher,
		cfg.Organizer.ClusterThreshold,
		sysLogger,
	)
	stackService := service.NewStackService(uowFactory, llmProvider, cfg.Ai.LLMModel, usageRecorder, sysLogger)
	insightService := service.NewInsightService(uowFactory, llmProvider, cfg.Ai.LLMModel, usageRecorder, sysLogger)

	batchService := service.NewBatchService(
		uowFactory,
		clusteringService,
		stackService,
		insightService,
		rdb,
		natsPub,
		emailService,
		cfg.SMTP.OpsEmail,
		time.Duration(cfg.Organizer.UserTimeoutSeconds)*time.Second,
		cfg.Organizer.EmbedBacklogLimit,
		sysLogger,
	)

	return &Container{
		JobController:   controller.NewJobController(batchService),
		ConsumerService: consumerService,
		NoteService:     noteService,
		ThreadService:   threadService,
		BatchService:    batchService,
		Logger:          sysLogger,
	}
}
