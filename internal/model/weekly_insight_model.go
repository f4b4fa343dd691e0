package model

import (
	"time"

	"github.com/google/uuid"
)

type WeeklyInsight struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_insight_user_week"`
	WeekStart time.Time `gorm:"not null;uniqueIndex:idx_insight_user_week"`
	Summary   string    `gorm:"type:text"`
	Sentiment string    `gorm:"type:varchar(32);not null;default:'neutral'"`
	NoteCount int       `gorm:"default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (WeeklyInsight) TableName() string {
	return "weekly_insights"
}
