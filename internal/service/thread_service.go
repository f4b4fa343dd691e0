package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"klutr-be/internal/constant"
	"klutr-be/internal/dto"
	"klutr-be/internal/entity"
	"klutr-be/internal/pkg/logger"
	"klutr-be/internal/repository/unitofwork"
	"klutr-be/pkg/embedding"
	"klutr-be/pkg/usage"
	"klutr-be/pkg/utils"
	"klutr-be/pkg/vectormath"

	"github.com/google/uuid"
)

const threadTitleMaxChars = 60

// ErrEmptyMessage rejects a capture whose content and transcription are both blank.
var ErrEmptyMessage = errors.New("message content is required")

type IThreadService interface {
	// MatchThread finds an existing thread whose recent messages are close
	// enough to content. Returns nil when nothing matches; any internal
	// failure also resolves to no match so capture never blocks.
	MatchThread(ctx context.Context, userId uuid.UUID, content string) (*uuid.UUID, error)
	// CreateMessage stores a message, routing it into a matched thread or a
	// fresh one, then enqueues its embedding.
	CreateMessage(ctx context.Context, userId uuid.UUID, req *dto.CreateMessageRequest) (*dto.CreateMessageResponse, error)
}

type threadService struct {
	uowFactory          unitofwork.RepositoryFactory
	publisherService    IPublisherService
	embeddingProvider   embedding.EmbeddingProvider
	similarityThreshold float64
	windowSize          int
	usageRecorder       usage.Recorder
	logger              logger.ILogger
}

func NewThreadService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	similarityThreshold float64,
	windowSize int,
	usageRecorder usage.Recorder,
	l logger.ILogger,
) IThreadService {
	return &threadService{
		uowFactory:          uowFactory,
		publisherService:    publisherService,
		embeddingProvider:   embeddingProvider,
		similarityThreshold: similarityThreshold,
		windowSize:          windowSize,
		usageRecorder:       usageRecorder,
		logger:              l,
	}
}

func (t *threadService) MatchThread(ctx context.Context, userId uuid.UUID, content string) (*uuid.UUID, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	res, err := t.embeddingProvider.Generate(content, constant.TaskTypeQuery)
	if err != nil {
		// A miss costs a new thread; a blocked capture costs the message.
		t.logger.Warn("Threads", "match embedding failed, no match", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return nil, nil
	}
	t.usageRecorder.Record(constant.FeatureThreadMatch, userId, len(content))

	uow := t.uowFactory.NewUnitOfWork(ctx)

	recent, err := uow.MessageRepository().FindRecentEmbedded(ctx, userId, t.windowSize)
	if err != nil {
		t.logger.Warn("Threads", "window lookup failed, no match", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return nil, nil
	}

	bestDistance := vectormath.MaxDistance
	var bestThread *uuid.UUID

	for _, m := range recent {
		if d := vectormath.CosineDistance(res.Embedding.Values, m.Embedding); d < bestDistance {
			bestDistance = d
			threadId := m.ThreadId
			bestThread = &threadId
		}
	}

	if bestThread == nil || bestDistance >= t.similarityThreshold {
		return nil, nil
	}

	return bestThread, nil
}

func (t *threadService) CreateMessage(ctx context.Context, userId uuid.UUID, req *dto.CreateMessageRequest) (*dto.CreateMessageResponse, error) {
	text := strings.TrimSpace(req.Transcription)
	if text == "" {
		text = strings.TrimSpace(req.Content)
	}
	if text == "" {
		return nil, ErrEmptyMessage
	}

	matched, err := t.MatchThread(ctx, userId, text)
	if err != nil {
		return nil, err
	}

	uow := t.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	newThread := false
	var threadId uuid.UUID

	if matched != nil {
		threadId = *matched
	} else {
		thread := &entity.Thread{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     utils.Truncate(text, threadTitleMaxChars),
			CreatedAt: now,
		}
		if err := uow.ThreadRepository().Create(ctx, thread); err != nil {
			return nil, err
		}
		threadId = thread.Id
		newThread = true
	}

	msg := &entity.Message{
		Id:            uuid.New(),
		ThreadId:      threadId,
		UserId:        userId,
		Content:       req.Content,
		Transcription: req.Transcription,
		CreatedAt:     now,
	}
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Enqueue-and-return: the embedding lands asynchronously.
	if err := t.publisherService.PublishEmbedMessage(ctx, msg.Id); err != nil {
		t.logger.Warn("Threads", "failed to enqueue message embedding", map[string]interface{}{
			"message_id": msg.Id,
			"error":      err.Error(),
		})
	}

	return &dto.CreateMessageResponse{
		Id:        msg.Id,
		ThreadId:  threadId,
		NewThread: newThread,
	}, nil
}
