package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/keycontent/keycontent/types"
)

// assetMeta is the sidecar record written next to every stored asset.
type assetMeta struct {
	AssetID  string    `json:"assetId"`
	ItemID   string    `json:"itemId"`
	Filename string    `json:"filename"`
	Label    string    `json:"label,omitempty"`
	StoredAt time.Time `json:"storedAt"`
}

// FileAssetStore implements AssetStore on top of an afero filesystem, so
// tests can run against an in-memory FS while production uses the OS disk.
type FileAssetStore struct {
	fs  afero.Fs
	dir string
}

// NewFileAssetStore creates an asset store rooted at dir.
func NewFileAssetStore(fs afero.Fs, dir string) *FileAssetStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileAssetStore{fs: fs, dir: dir}
}

// Store writes the binary and a sidecar meta record, returning the asset ID.
// Failures surface as asset-store errors so the orchestrator can classify them.
func (s *FileAssetStore) Store(data []byte, itemID, filename, label string) (string, error) {
	if len(data) == 0 {
		return "", types.NewPipelineError(types.CodeAssetStore, "refusing to store an empty asset")
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", types.WrapPipelineError(types.CodeAssetStore, fmt.Sprintf("failed to create asset directory %s", s.dir), err)
	}

	assetID := uuid.NewString()
	name := assetID
	if clean := sanitizeFilename(filename); clean != "" {
		name = assetID + "-" + clean
	}
	assetPath := filepath.Join(s.dir, name)

	if err := afero.WriteFile(s.fs, assetPath, data, 0o644); err != nil {
		return "", types.WrapPipelineError(types.CodeAssetStore, fmt.Sprintf("failed to write asset %s", assetPath), err)
	}

	meta := assetMeta{
		AssetID:  assetID,
		ItemID:   itemID,
		Filename: name,
		Label:    label,
		StoredAt: time.Now().UTC(),
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", types.WrapPipelineError(types.CodeAssetStore, "failed to encode asset metadata", err)
	}
	if err := afero.WriteFile(s.fs, assetPath+".meta.json", metaBytes, 0o644); err != nil {
		return "", types.WrapPipelineError(types.CodeAssetStore, fmt.Sprintf("failed to write asset metadata for %s", assetPath), err)
	}

	return assetID, nil
}

// sanitizeFilename strips path separators and whitespace so a model-derived
// filename cannot escape the asset directory.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, name)
}
