package contract

import (
	"context"

	"klutr-be/internal/entity"
	"klutr-be/internal/repository/specification"
)

type WeeklyInsightRepository interface {
	// Upsert inserts or updates the insight keyed by (user_id, week_start).
	Upsert(ctx context.Context, insight *entity.WeeklyInsight) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WeeklyInsight, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WeeklyInsight, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
