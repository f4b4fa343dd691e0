package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Keys      APIKeys
	Ai        AIConfig
	Organizer OrganizerConfig
}

type AppConfig struct {
	Port        string
	Environment string
	LogFilePath string
	NatsURL     string
	RedisURL    string
	JobToken    string // shared secret for the internal job trigger endpoints
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	OpsEmail   string // receives batch run reports; empty disables mailing
}

type APIKeys struct {
	GoogleGemini string
	EmbedTopic   string // Watermill topic for note/message embedding
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "gemini" or "ollama"
	LLMModel          string
}

// OrganizerConfig carries the tuning knobs of the semantic organization engine.
type OrganizerConfig struct {
	ClusterThreshold    float64 // cosine distance below which a note joins a centroid
	SimilarityThreshold float64 // cosine distance below which a message joins a thread
	ThreadWindowSize    int     // most-recent messages scanned by the thread matcher
	EmbedBacklogLimit   int     // notes embedded per user per nightly sweep
	UserTimeoutSeconds  int     // per-user budget inside a batch run
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("APP_PORT", "3000"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "logs/app.log"),
			NatsURL:     getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
			JobToken:    getEnv("JOB_TRIGGER_TOKEN", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Klutr"),
			OpsEmail:   getEnv("OPS_REPORT_EMAIL", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			EmbedTopic:   getEnv("EMBED_CONTENT_TOPIC_NAME", "EMBED_CONTENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-1.5-flash"),
		},
		Organizer: OrganizerConfig{
			ClusterThreshold:    getEnvAsFloat("CLUSTER_THRESHOLD", 0.35),
			SimilarityThreshold: getEnvAsFloat("THREAD_SIMILARITY_THRESHOLD", 0.3),
			ThreadWindowSize:    getEnvAsInt("THREAD_WINDOW_SIZE", 50),
			EmbedBacklogLimit:   getEnvAsInt("EMBED_BACKLOG_LIMIT", 100),
			UserTimeoutSeconds:  getEnvAsInt("BATCH_USER_TIMEOUT_SECONDS", 120),
		},
	}
}

// Validate fails fast on configuration the job runner cannot start without.
// Provider credentials are checked here, not mid-run.
func (c *Config) Validate() error {
	if c.Database.Connection == "" {
		return fmt.Errorf("DB_CONNECTION_STRING is required")
	}
	if c.Ai.EmbeddingProvider == "gemini" && c.Keys.GoogleGemini == "" {
		return fmt.Errorf("GOOGLE_GEMINI_API_KEY is required when EMBEDDING_PROVIDER=gemini")
	}
	if c.Ai.LLMProvider == "gemini" && c.Keys.GoogleGemini == "" {
		return fmt.Errorf("GOOGLE_GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
