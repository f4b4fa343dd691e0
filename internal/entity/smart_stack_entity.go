package entity

import (
	"time"

	"github.com/google/uuid"
)

// SmartStack is the durable, summarized collection backing one cluster.
// One row per (user, cluster); rebuilds upsert in place.
type SmartStack struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Name      string
	Cluster   string
	NoteCount int
	Summary   string
	Pinned    bool
	Stale     bool // set when the cluster drops below the stack minimum on a rebuild
	CreatedAt time.Time
	UpdatedAt *time.Time
}
