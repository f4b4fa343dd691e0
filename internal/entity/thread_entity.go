package entity

import (
	"time"

	"github.com/google/uuid"
)

type Thread struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Message belongs to exactly one thread. The assignment is decided at
// creation time and never revised.
type Message struct {
	Id            uuid.UUID
	ThreadId      uuid.UUID
	UserId        uuid.UUID
	Content       string
	Transcription string
	Embedding     []float32
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

func (m *Message) HasEmbedding() bool {
	return len(m.Embedding) > 0
}

// Text returns the matchable content of a message, preferring transcription
// for voice captures.
func (m *Message) Text() string {
	if m.Transcription != "" {
		return m.Transcription
	}
	return m.Content
}
