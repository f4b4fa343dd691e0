package specification

import (
	"time"

	"gorm.io/gorm"
)

// HasEmbedding keeps only notes that went through the embedding pass.
type HasEmbedding struct{}

func (s HasEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NOT NULL")
}

// MissingEmbedding selects the enrichment backlog.
type MissingEmbedding struct{}

func (s MissingEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NULL")
}

// NotArchived excludes archived notes. The organizer never hard-deletes.
type NotArchived struct{}

func (s NotArchived) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("archived = ?", false)
}

// ByCluster filters by assigned cluster name.
type ByCluster struct {
	Cluster string
}

func (s ByCluster) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("cluster = ?", s.Cluster)
}

// CreatedBetween bounds created_at to [From, To).
type CreatedBetween struct {
	From time.Time
	To   time.Time
}

func (s CreatedBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ? AND created_at < ?", s.From, s.To)
}
