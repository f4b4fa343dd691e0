package dto

import (
	"time"

	"github.com/google/uuid"
)

// PublishEmbedNoteMessage is the payload of the async note enrichment task.
type PublishEmbedNoteMessage struct {
	NoteId uuid.UUID `json:"note_id"`
}

// PublishEmbedMessageMessage is the payload of the async message embedding task.
type PublishEmbedMessageMessage struct {
	MessageId uuid.UUID `json:"message_id"`
}

// ClusterReport describes one full clustering pass for one user.
type ClusterReport struct {
	UserId        uuid.UUID        `json:"user_id"`
	NotesSeen     int              `json:"notes_seen"`
	NotesAssigned int              `json:"notes_assigned"`
	Centroids     int              `json:"centroids"`
	ClusterCounts map[string]int   `json:"cluster_counts"`
	Assignments   []NoteAssignment `json:"assignments,omitempty"`
	NothingToDo   bool             `json:"nothing_to_do"`
}

// NoteAssignment is one note's outcome within a clustering pass.
type NoteAssignment struct {
	NoteId     uuid.UUID `json:"note_id"`
	Cluster    string    `json:"cluster"`
	Confidence float64   `json:"confidence"`
}

type SmartStackResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Cluster   string    `json:"cluster"`
	NoteCount int       `json:"note_count"`
	Summary   string    `json:"summary"`
	Pinned    bool      `json:"pinned"`
	Stale     bool      `json:"stale"`
}

type WeeklyInsightResponse struct {
	Id        uuid.UUID `json:"id"`
	WeekStart time.Time `json:"week_start"`
	Summary   string    `json:"summary"`
	Sentiment string    `json:"sentiment"`
	NoteCount int       `json:"note_count"`
}

// CreateMessageRequest captures a new message into a conversation. ThreadId
// is resolved by similarity matching when absent.
type CreateMessageRequest struct {
	Content       string `json:"content" validate:"required"`
	Transcription string `json:"transcription"`
}

type CreateMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	ThreadId  uuid.UUID `json:"thread_id"`
	NewThread bool      `json:"new_thread"`
}

// BatchUserError records one user's failure inside a batch run.
type BatchUserError struct {
	UserId uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Reason string    `json:"reason"`
}

// BatchReport is the aggregate outcome of one orchestrator run.
// UsersProcessed + UsersFailed always equals the user count at run start.
type BatchReport struct {
	JobKind        string           `json:"job_kind"`
	StartedAt      time.Time        `json:"started_at"`
	FinishedAt     time.Time        `json:"finished_at"`
	UsersTotal     int              `json:"users_total"`
	UsersProcessed int              `json:"users_processed"`
	UsersFailed    int              `json:"users_failed"`
	ItemsProduced  int              `json:"items_produced"`
	Errors         []BatchUserError `json:"errors"`
	Aborted        bool             `json:"aborted"`
}

// TriggerJobRequest is the optional body of a job trigger ping.
type TriggerJobRequest struct {
	WeekStart *time.Time `json:"week_start" validate:"omitempty"`
}

type TriggerJobResponse struct {
	JobKind string       `json:"job_kind"`
	Report  *BatchReport `json:"report"`
}
