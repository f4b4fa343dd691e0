package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id                uuid.UUID
	UserId            uuid.UUID
	Content           string
	Type              string
	Tags              []string
	Embedding         []float32 // nil until the async enrichment pass runs
	Cluster           *string
	ClusterConfidence float64
	ClusterUpdatedAt  *time.Time
	Archived          bool
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	DeletedAt         *time.Time
	IsDeleted         bool
}

// HasEmbedding reports whether the note has been through the embedding pass.
func (n *Note) HasEmbedding() bool {
	return len(n.Embedding) > 0
}
