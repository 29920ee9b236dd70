// Package logger persists per-run debug logs so failed generations stay
// diagnosable after the fact.
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultKeepRunLogs is the retention bound when none is configured.
const DefaultKeepRunLogs = 10

// RunLogWriter writes one JSON file per generation run into a log
// directory, pruning the oldest files beyond the retention bound.
type RunLogWriter struct {
	dir  string
	keep int
}

// NewRunLogWriter creates a writer for dir keeping at most keep run logs.
func NewRunLogWriter(dir string, keep int) *RunLogWriter {
	if keep <= 0 {
		keep = DefaultKeepRunLogs
	}
	return &RunLogWriter{dir: dir, keep: keep}
}

// Write persists one run result and returns the file path. Pruning
// failures are ignored; the fresh log always wins over old ones.
func (w *RunLogWriter) Write(itemID string, result any) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create run log dir: %w", err)
	}
	w.pruneOld()

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal run log: %w", err)
	}
	path := w.logPath(itemID, time.Now())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write run log: %w", err)
	}
	return path, nil
}

func (w *RunLogWriter) logPath(itemID string, t time.Time) string {
	id := itemID
	if len(id) > 8 {
		id = id[:8]
	}
	filename := fmt.Sprintf("run_%s_%s.json", t.Format("20060102_150405"), id)
	return filepath.Join(w.dir, filename)
}

// pruneOld removes the oldest run logs beyond the retention bound. File
// names embed the timestamp, so lexical order is chronological and
// os.ReadDir already sorts by name.
func (w *RunLogWriter) pruneOld() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}

	var runLogs []os.DirEntry
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "run_") && strings.HasSuffix(e.Name(), ".json") {
			runLogs = append(runLogs, e)
		}
	}
	// Keep room for the file about to be written.
	if len(runLogs) < w.keep {
		return
	}
	toRemove := len(runLogs) - w.keep + 1
	for i := 0; i < toRemove; i++ {
		_ = os.Remove(filepath.Join(w.dir, runLogs[i].Name()))
	}
}
