package store

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keycontent/keycontent/types"
)

func TestFileAssetStore_Store(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileAssetStore(fs, "assets")

	assetID, err := store.Store([]byte{0xFF, 0xD8, 0xFF}, "item-1", "hero.jpg", "Hero image for Widget X")
	require.NoError(t, err)
	require.NotEmpty(t, assetID)

	// Binary and sidecar meta land under the asset dir.
	data, err := afero.ReadFile(fs, "assets/"+assetID+"-hero.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, data)

	metaBytes, err := afero.ReadFile(fs, "assets/"+assetID+"-hero.jpg.meta.json")
	require.NoError(t, err)
	var meta assetMeta
	require.NoError(t, json.Unmarshal(metaBytes, &meta))
	assert.Equal(t, assetID, meta.AssetID)
	assert.Equal(t, "item-1", meta.ItemID)
	assert.Equal(t, "Hero image for Widget X", meta.Label)
}

func TestFileAssetStore_RejectsEmptyData(t *testing.T) {
	store := NewFileAssetStore(afero.NewMemMapFs(), "assets")
	_, err := store.Store(nil, "item-1", "x.jpg", "")
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.CodeAssetStore))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hero.jpg", "hero.jpg"},
		{"../../etc/passwd", "passwd"},
		{"my image!.png", "my-image.png"},
		{"   ", ""},
	}
	for _, tc := range tests {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
