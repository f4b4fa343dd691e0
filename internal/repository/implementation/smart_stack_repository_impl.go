package implementation

import (
	"context"
	"errors"

	"klutr-be/internal/entity"
	"klutr-be/internal/mapper"
	"klutr-be/internal/model"
	"klutr-be/internal/repository/contract"
	"klutr-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SmartStackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SmartStackMapper
}

func NewSmartStackRepository(db *gorm.DB) contract.SmartStackRepository {
	return &SmartStackRepositoryImpl{
		db:     db,
		mapper: mapper.NewSmartStackMapper(),
	}
}

func (r *SmartStackRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SmartStackRepositoryImpl) Upsert(ctx context.Context, stack *entity.SmartStack) error {
	m := r.mapper.ToModel(stack)

	// Pinned is user intent; rebuilds must not reset it.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "cluster"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"note_count", "summary", "stale", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	*stack = *r.mapper.ToEntity(m)
	return nil
}

func (r *SmartStackRepositoryImpl) MarkStaleExcept(ctx context.Context, userId uuid.UUID, keep []string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&model.SmartStack{}).
		Where("user_id = ?", userId).
		Where("stale = ?", false)

	if len(keep) > 0 {
		query = query.Where("cluster NOT IN ?", keep)
	}

	res := query.Update("stale", true)
	return res.RowsAffected, res.Error
}

func (r *SmartStackRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SmartStack, error) {
	var m model.SmartStack
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SmartStackRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SmartStack, error) {
	var models []*model.SmartStack
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SmartStackRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SmartStack{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
