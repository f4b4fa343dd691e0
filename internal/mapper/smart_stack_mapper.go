package mapper

import (
	"time"

	"klutr-be/internal/entity"
	"klutr-be/internal/model"
)

type SmartStackMapper struct{}

func NewSmartStackMapper() *SmartStackMapper {
	return &SmartStackMapper{}
}

func (m *SmartStackMapper) ToEntity(s *model.SmartStack) *entity.SmartStack {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.SmartStack{
		Id:        s.Id,
		UserId:    s.UserId,
		Name:      s.Name,
		Cluster:   s.Cluster,
		NoteCount: s.NoteCount,
		Summary:   s.Summary,
		Pinned:    s.Pinned,
		Stale:     s.Stale,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *SmartStackMapper) ToModel(s *entity.SmartStack) *model.SmartStack {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.SmartStack{
		Id:        s.Id,
		UserId:    s.UserId,
		Name:      s.Name,
		Cluster:   s.Cluster,
		NoteCount: s.NoteCount,
		Summary:   s.Summary,
		Pinned:    s.Pinned,
		Stale:     s.Stale,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *SmartStackMapper) ToEntities(stacks []*model.SmartStack) []*entity.SmartStack {
	entities := make([]*entity.SmartStack, len(stacks))
	for i, s := range stacks {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
