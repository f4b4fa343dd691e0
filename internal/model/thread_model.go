package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Thread struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:varchar(255)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Thread) TableName() string {
	return "threads"
}

type Message struct {
	Id            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ThreadId      uuid.UUID        `gorm:"type:uuid;not null;index"`
	UserId        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Content       string           `gorm:"type:text"`
	Transcription string           `gorm:"type:text"`
	Embedding     *pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt     time.Time        `gorm:"autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime"`
}

func (Message) TableName() string {
	return "messages"
}
