package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Note struct {
	Id                uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId            uuid.UUID        `gorm:"type:uuid;not null;index"`
	Content           string           `gorm:"type:text"`
	Type              string           `gorm:"type:varchar(32);not null;default:'unclassified'"`
	Tags              datatypes.JSON   `gorm:"type:jsonb"`
	Embedding         *pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	Cluster           *string          `gorm:"type:varchar(64);index"`
	ClusterConfidence float64          `gorm:"default:0"`
	ClusterUpdatedAt  *time.Time
	Archived          bool           `gorm:"default:false;index"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}
