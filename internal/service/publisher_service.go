package service

import (
	"context"
	"encoding/json"

	"klutr-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// Message kinds carried in watermill metadata so one topic serves both
// enrichment flows.
const (
	EmbedKindNote    = "note"
	EmbedKindMessage = "message"
	embedKindKey     = "kind"
)

type IPublisherService interface {
	PublishEmbedNote(ctx context.Context, noteId uuid.UUID) error
	PublishEmbedMessage(ctx context.Context, messageId uuid.UUID) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (p *publisherService) PublishEmbedNote(ctx context.Context, noteId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishEmbedNoteMessage{NoteId: noteId})
	if err != nil {
		return err
	}
	return p.publish(EmbedKindNote, payload)
}

func (p *publisherService) PublishEmbedMessage(ctx context.Context, messageId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishEmbedMessageMessage{MessageId: messageId})
	if err != nil {
		return err
	}
	return p.publish(EmbedKindMessage, payload)
}

func (p *publisherService) publish(kind string, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(embedKindKey, kind)
	return p.publisher.Publish(p.topicName, msg)
}
