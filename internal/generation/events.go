// Package generation drives one content item end-to-end: resolve settings,
// generate text, apply fields, generate and store images.
package generation

import (
	"sync"
	"time"

	"github.com/keycontent/keycontent/models"
)

// MemorySink accumulates debug entries in order. One sink lives for one
// generation run; its entries end up on the GenerationResult.
type MemorySink struct {
	mu      sync.Mutex
	entries []models.DebugEntry
}

// NewMemorySink returns an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Record appends one entry. Safe for concurrent use.
func (s *MemorySink) Record(step string, data map[string]any, isError bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, models.DebugEntry{
		Step:      step,
		Data:      data,
		Timestamp: time.Now(),
		IsError:   isError,
	})
}

// Entries returns a copy of the accumulated log.
func (s *MemorySink) Entries() []models.DebugEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DebugEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
