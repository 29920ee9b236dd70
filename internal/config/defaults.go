// Package config resolves the layered generation settings: global
// credentials and models, per-type tuning, per-item keyword context and the
// enabled field set. All default values live here to keep a single source
// of truth.
package config

// Configuration keys and defaults for the file-backed content store.
const (
	// DefaultDataFile is the content store file relative to the data dir.
	DefaultDataFile = "content.json"

	// DefaultDataFormat is the content store serialization format.
	DefaultDataFormat = "json"

	// DefaultAssetsDir is where generated image assets land, relative to
	// the project root.
	DefaultAssetsDir = "assets"
)

// Defaults for the batch worker and debug-log retention.
const (
	// DefaultBatchDelaySeconds is the pause between batch items.
	DefaultBatchDelaySeconds = 10

	// DefaultKeepDebugLogs bounds how many per-run debug logs we retain.
	DefaultKeepDebugLogs = 10
)

// DefaultLanguage is assumed when the content config names none.
const DefaultLanguage = "English"
