package service

import (
	"context"
	"strings"
	"time"

	"klutr-be/internal/constant"
	"klutr-be/internal/entity"
	"klutr-be/internal/pkg/logger"
	"klutr-be/internal/repository/specification"
	"klutr-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type INoteService interface {
	// Capture stores raw content immediately and enqueues enrichment.
	// The note is visible to the user before its embedding exists.
	Capture(ctx context.Context, userId uuid.UUID, content string) (*entity.Note, error)
	// Archive hides a note from every organizer pass without deleting it.
	Archive(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) error
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	l logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           l,
	}
}

func (c *noteService) Capture(ctx context.Context, userId uuid.UUID, content string) (*entity.Note, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note := &entity.Note{
		Id:        uuid.New(),
		UserId:    userId,
		Content:   content,
		Type:      constant.NoteTypeUnclassified,
		CreatedAt: time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, note); err != nil {
		return nil, err
	}

	// Empty captures are stored but never enriched.
	if strings.TrimSpace(content) != "" {
		if err := c.publisherService.PublishEmbedNote(ctx, note.Id); err != nil {
			c.logger.Warn("Notes", "failed to enqueue enrichment", map[string]interface{}{
				"note_id": note.Id,
				"error":   err.Error(),
			})
		}
	}

	return note, nil
}

func (c *noteService) Archive(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return nil
	}

	now := time.Now()
	note.Archived = true
	note.UpdatedAt = &now

	return uow.NoteRepository().Update(ctx, note)
}
