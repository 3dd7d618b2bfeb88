// Package diag keeps a bounded history of translation failures for
// troubleshooting. Writes are best-effort: a failure to record never
// surfaces to the request that triggered it.
package diag

import (
	"log"
	"sync"
	"time"

	"github.com/traylingo/traylingo/pkg/models"
	"github.com/traylingo/traylingo/pkg/store"
)

const (
	historyKey = "error_history"

	// maxEntries caps the history; the oldest entries are dropped first.
	maxEntries = 50
)

// Recorder persists error records in the JSON store.
type Recorder struct {
	mu      sync.Mutex
	store   *store.Store
	enabled bool

	now func() time.Time
}

// New creates a Recorder. When enabled is false every call is a no-op,
// honoring the telemetry opt-out.
func New(st *store.Store, enabled bool) *Recorder {
	return &Recorder{store: st, enabled: enabled, now: time.Now}
}

// SetEnabled toggles error recording at runtime.
func (r *Recorder) SetEnabled(enabled bool) {
	r.mu.Lock()
	r.enabled = enabled
	r.mu.Unlock()
}

// Record appends an error to the history, dropping the oldest entries past
// the cap. Fire-and-forget: storage errors are logged and swallowed.
func (r *Recorder) Record(kind, message string, inputLength int, model string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabled {
		return
	}

	history := r.history()
	history = append(history, models.ErrorRecord{
		Timestamp:   r.now().Unix(),
		Kind:        kind,
		Message:     message,
		InputLength: inputLength,
		Model:       model,
	})
	if len(history) > maxEntries {
		history = history[len(history)-maxEntries:]
	}

	if err := r.store.Set(historyKey, history); err != nil {
		log.Printf("diag: persist error history: %v", err)
	}
}

// History returns all recorded errors, oldest first.
func (r *Recorder) History() []models.ErrorRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history()
}

// Clear empties the history.
func (r *Recorder) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Set(historyKey, []models.ErrorRecord{})
}

func (r *Recorder) history() []models.ErrorRecord {
	var history []models.ErrorRecord
	if _, err := r.store.Get(historyKey, &history); err != nil {
		log.Printf("diag: load error history: %v", err)
	}
	return history
}
