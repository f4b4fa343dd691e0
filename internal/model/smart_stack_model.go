package model

import (
	"time"

	"github.com/google/uuid"
)

type SmartStack struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stack_user_cluster"`
	Name      string    `gorm:"type:varchar(64);not null"`
	Cluster   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_stack_user_cluster"`
	NoteCount int       `gorm:"default:0"`
	Summary   string    `gorm:"type:text"`
	Pinned    bool      `gorm:"default:false"`
	Stale     bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (SmartStack) TableName() string {
	return "smart_stacks"
}
