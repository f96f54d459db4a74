package pbit

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/pbit-mentor/internal/errs"
)

// writeZip builds a ZIP file from name→content pairs and returns its path.
func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.pbit")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestExtractArchive(t *testing.T) {
	path := writeZip(t, map[string]string{
		"DataModelSchema":     "schema-bytes",
		"Report/Layout":       "layout-bytes",
		"[Content_Types].xml": "<Types/>",
	})

	dir, err := ExtractArchive(path)
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	schema, err := os.ReadFile(filepath.Join(dir, "DataModelSchema"))
	require.NoError(t, err)
	assert.Equal(t, "schema-bytes", string(schema))

	layout, err := os.ReadFile(filepath.Join(dir, "Report", "Layout"))
	require.NoError(t, err)
	assert.Equal(t, "layout-bytes", string(layout))
}

func TestExtractArchive_Missing(t *testing.T) {
	_, err := ExtractArchive(filepath.Join(t.TempDir(), "nope.pbit"))
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestExtractArchive_Directory(t *testing.T) {
	_, err := ExtractArchive(t.TempDir())
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestExtractArchive_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pbit")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := ExtractArchive(path)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestExtractArchive_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pbit")
	require.NoError(t, os.WriteFile(path, []byte("this is not a zip archive"), 0o644))

	_, err := ExtractArchive(path)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
	assert.Contains(t, err.Error(), path)
}

func TestExtractArchive_RejectsPathTraversal(t *testing.T) {
	path := writeZip(t, map[string]string{"../escape.txt": "x"})

	_, err := ExtractArchive(path)
	assert.ErrorIs(t, err, errs.ErrCorrupt)
}
