package models

import "time"

// DebugEntry is one structured event recorded during a generation run.
// Entries are append-only in generation order; the accumulated log is the
// single source of truth for any debug view of the run.
type DebugEntry struct {
	Step      string         `json:"step"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	IsError   bool           `json:"isError,omitempty"`
}

// GenerationResult is the outcome of one orchestration run. It is created
// fresh per run and returned to the caller; it is never persisted as state.
type GenerationResult struct {
	Success       bool         `json:"success"`
	ItemID        string       `json:"itemId,omitempty"`
	FieldsUpdated int          `json:"fieldsUpdated"`
	ImagesUpdated int          `json:"imagesUpdated"`
	Message       string       `json:"message,omitempty"`
	Log           []DebugEntry `json:"log,omitempty"`
}

// IntakeResult reports what load-keyword did for one keyword.
type IntakeResult struct {
	ItemID    string `json:"itemId"`
	Created   bool   `json:"created"`
	Published bool   `json:"published"`
}
