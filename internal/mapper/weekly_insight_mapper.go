package mapper

import (
	"time"

	"klutr-be/internal/entity"
	"klutr-be/internal/model"
)

type WeeklyInsightMapper struct{}

func NewWeeklyInsightMapper() *WeeklyInsightMapper {
	return &WeeklyInsightMapper{}
}

func (m *WeeklyInsightMapper) ToEntity(w *model.WeeklyInsight) *entity.WeeklyInsight {
	if w == nil {
		return nil
	}

	var updatedAt *time.Time
	if !w.UpdatedAt.IsZero() {
		t := w.UpdatedAt
		updatedAt = &t
	}

	return &entity.WeeklyInsight{
		Id:        w.Id,
		UserId:    w.UserId,
		WeekStart: w.WeekStart,
		Summary:   w.Summary,
		Sentiment: w.Sentiment,
		NoteCount: w.NoteCount,
		CreatedAt: w.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *WeeklyInsightMapper) ToModel(w *entity.WeeklyInsight) *model.WeeklyInsight {
	if w == nil {
		return nil
	}

	var updatedAt time.Time
	if w.UpdatedAt != nil {
		updatedAt = *w.UpdatedAt
	}

	return &model.WeeklyInsight{
		Id:        w.Id,
		UserId:    w.UserId,
		WeekStart: w.WeekStart,
		Summary:   w.Summary,
		Sentiment: w.Sentiment,
		NoteCount: w.NoteCount,
		CreatedAt: w.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:        u.Id,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}
