package entity

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyInsight is the narrative summary of one user's week.
// At most one row per (user, week_start); week_start is Monday 00:00.
type WeeklyInsight struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	WeekStart time.Time
	Summary   string
	Sentiment string
	NoteCount int
	CreatedAt time.Time
	UpdatedAt *time.Time
}
