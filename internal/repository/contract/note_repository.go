package contract

import (
	"context"

	"klutr-be/internal/entity"
	"klutr-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ClusterCount is one row of the per-cluster distribution for a user.
type ClusterCount struct {
	Cluster string
	Count   int
}

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	// UpdateClusterAssignment persists only the clustering fields so a pass
	// cannot clobber content edited concurrently.
	UpdateClusterAssignment(ctx context.Context, note *entity.Note) error
	// UpdateEnrichment persists embedding, type and tags from the async pipeline.
	UpdateEnrichment(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// CountByCluster returns the non-archived cluster distribution for a user,
	// largest clusters first. Unclustered notes are excluded.
	CountByCluster(ctx context.Context, userId uuid.UUID) ([]ClusterCount, error)
}
