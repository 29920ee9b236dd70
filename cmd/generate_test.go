package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadKeywordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.txt")
	content := "best coffee machine\n\n  garden sheds  \n\nstanding desk\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	keywords, err := readKeywordFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"best coffee machine", "garden sheds", "standing desk"}, keywords)
}

func TestReadKeywordFile_Missing(t *testing.T) {
	_, err := readKeywordFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
