package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"klutr-be/internal/constant"
	"klutr-be/internal/dto"
	"klutr-be/internal/pkg/logger"
	"klutr-be/internal/repository/specification"
	"klutr-be/internal/repository/unitofwork"
	"klutr-be/pkg/embedding"
	"klutr-be/pkg/events"
	pkgNats "klutr-be/pkg/nats"
	"klutr-be/pkg/usage"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	enricher          *NoteEnricher
	embeddingProvider embedding.EmbeddingProvider
	usageRecorder     usage.Recorder
	eventPublisher    *pkgNats.Publisher
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	enricher *NoteEnricher,
	embeddingProvider embedding.EmbeddingProvider,
	usageRecorder usage.Recorder,
	eventPublisher *pkgNats.Publisher,
	l logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		enricher:          enricher,
		embeddingProvider: embeddingProvider,
		usageRecorder:     usageRecorder,
		eventPublisher:    eventPublisher,
		logger:            l,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	switch msg.Metadata.Get(embedKindKey) {
	case EmbedKindMessage:
		cs.processEmbedMessage(ctx, msg)
	default:
		cs.processEmbedNote(ctx, msg)
	}
}

func (cs *consumerService) processEmbedNote(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedNoteMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "failed to unmarshal note payload", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // unparseable payloads never become parseable, do not retry
		return
	}

	cs.logger.Info("Consumer", "enriching note", map[string]interface{}{
		"note_id": payload.NoteId,
	})

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: payload.NoteId})
	if err != nil {
		cs.logger.Error("Consumer", "failed to load note", map[string]interface{}{
			"note_id": payload.NoteId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	if note == nil {
		// Deleted between capture and processing.
		msg.Ack()
		return
	}

	if err := cs.enricher.Enrich(ctx, uow, note); err != nil {
		cs.logger.Error("Consumer", "enrichment failed", map[string]interface{}{
			"note_id": payload.NoteId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil && note.HasEmbedding() {
		evt := events.BaseEvent{
			Type: "NOTE_EMBEDDED",
			Data: map[string]interface{}{
				"note_id": note.Id,
				"user_id": note.UserId,
				"type":    note.Type,
			},
			OccurredAt: time.Now(),
		}
		// Auxiliary, never fails the pipeline.
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("Consumer", "failed to publish NOTE_EMBEDDED event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	cs.logger.Info("Consumer", "note enriched", map[string]interface{}{
		"note_id": note.Id,
		"type":    note.Type,
	})
	msg.Ack()
}

func (cs *consumerService) processEmbedMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedMessageMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "failed to unmarshal message payload", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	m, err := uow.MessageRepository().FindOne(ctx, specification.ByID{ID: payload.MessageId})
	if err != nil {
		cs.logger.Error("Consumer", "failed to load message", map[string]interface{}{
			"message_id": payload.MessageId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	if m == nil {
		msg.Ack()
		return
	}

	text := strings.TrimSpace(m.Text())
	if text == "" {
		msg.Ack()
		return
	}

	res, err := cs.embeddingProvider.Generate(text, constant.TaskTypeDocument)
	if err != nil {
		cs.logger.Error("Consumer", "message embedding failed", map[string]interface{}{
			"message_id": payload.MessageId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	cs.usageRecorder.Record(constant.FeatureMessageEmbedding, m.UserId, len(text))

	now := time.Now()
	m.Embedding = res.Embedding.Values
	m.UpdatedAt = &now

	if err := uow.MessageRepository().UpdateEmbedding(ctx, m); err != nil {
		cs.logger.Error("Consumer", "failed to persist message embedding", map[string]interface{}{
			"message_id": payload.MessageId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
