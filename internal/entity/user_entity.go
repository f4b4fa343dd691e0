package entity

import (
	"time"

	"github.com/google/uuid"
)

// User carries only what the organizer needs: an id to key data by and an
// email for run logs and reports. Account management lives elsewhere.
type User struct {
	Id        uuid.UUID
	Email     string
	CreatedAt time.Time
}
