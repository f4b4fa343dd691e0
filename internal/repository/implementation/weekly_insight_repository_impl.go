package implementation

import (
	"context"
	"errors"

	"klutr-be/internal/entity"
	"klutr-be/internal/mapper"
	"klutr-be/internal/model"
	"klutr-be/internal/repository/contract"
	"klutr-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WeeklyInsightRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WeeklyInsightMapper
}

func NewWeeklyInsightRepository(db *gorm.DB) contract.WeeklyInsightRepository {
	return &WeeklyInsightRepositoryImpl{
		db:     db,
		mapper: mapper.NewWeeklyInsightMapper(),
	}
}

func (r *WeeklyInsightRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WeeklyInsightRepositoryImpl) Upsert(ctx context.Context, insight *entity.WeeklyInsight) error {
	m := r.mapper.ToModel(insight)

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"summary", "sentiment", "note_count", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	*insight = *r.mapper.ToEntity(m)
	return nil
}

func (r *WeeklyInsightRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WeeklyInsight, error) {
	var m model.WeeklyInsight
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *WeeklyInsightRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WeeklyInsight, error) {
	var models []*model.WeeklyInsight
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	insights := make([]*entity.WeeklyInsight, len(models))
	for i, m := range models {
		insights[i] = r.mapper.ToEntity(m)
	}
	return insights, nil
}

func (r *WeeklyInsightRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.WeeklyInsight{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
