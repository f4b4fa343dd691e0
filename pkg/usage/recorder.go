// Package usage attributes billable AI calls to a feature and a user so
// spend can be reconciled against the cost projections.
package usage

import (
	"sync"

	"klutr-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Recorder receives one event per billable provider call.
type Recorder interface {
	Record(feature string, userId uuid.UUID, units int)
}

type record struct {
	Calls int
	Units int
}

// LogRecorder logs every attribution event and keeps per-feature totals for
// report surfaces.
type LogRecorder struct {
	logger logger.ILogger

	mu     sync.Mutex
	totals map[string]record
}

func NewLogRecorder(l logger.ILogger) *LogRecorder {
	return &LogRecorder{
		logger: l,
		totals: make(map[string]record),
	}
}

func (r *LogRecorder) Record(feature string, userId uuid.UUID, units int) {
	r.mu.Lock()
	t := r.totals[feature]
	t.Calls++
	t.Units += units
	r.totals[feature] = t
	r.mu.Unlock()

	r.logger.Debug("Usage", "billable call", map[string]interface{}{
		"feature": feature,
		"user_id": userId,
		"units":   units,
	})
}

// Totals returns a snapshot of per-feature call and unit counts.
func (r *LogRecorder) Totals() map[string]struct{ Calls, Units int } {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]struct{ Calls, Units int }, len(r.totals))
	for feature, t := range r.totals {
		out[feature] = struct{ Calls, Units int }{Calls: t.Calls, Units: t.Units}
	}
	return out
}

// NopRecorder discards every event. Used where attribution is not wired.
type NopRecorder struct{}

func (NopRecorder) Record(feature string, userId uuid.UUID, units int) {}
