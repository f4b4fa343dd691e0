package contract

import (
	"context"

	"klutr-be/internal/entity"
	"klutr-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SmartStackRepository interface {
	// Upsert inserts or updates the stack keyed by (user_id, cluster).
	// note_count, summary and stale are refreshed; pinned survives rebuilds.
	Upsert(ctx context.Context, stack *entity.SmartStack) error
	// MarkStaleExcept flags every stack of the user whose cluster is not in
	// keep. Returns the number of stacks flagged.
	MarkStaleExcept(ctx context.Context, userId uuid.UUID, keep []string) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SmartStack, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SmartStack, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
