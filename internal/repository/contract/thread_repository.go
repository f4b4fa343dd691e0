package contract

import (
	"context"

	"klutr-be/internal/entity"
	"klutr-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ThreadRepository interface {
	Create(ctx context.Context, thread *entity.Thread) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Thread, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Thread, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// UpdateEmbedding persists only the embedding column.
	UpdateEmbedding(ctx context.Context, message *entity.Message) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	// FindRecentEmbedded returns the user's most recent messages that carry an
	// embedding, newest first, capped at limit. The thread matcher's window.
	FindRecentEmbedded(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.Message, error)
}
