package submission

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/pbit-mentor/internal/errs"
)

func writeBundle(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "submission.zip")
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

func TestResolve_Directory(t *testing.T) {
	dir := t.TempDir()

	workPath, cleanup, err := Resolve(dir)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, dir, workPath)
}

func TestResolve_ZipBundle(t *testing.T) {
	path := writeBundle(t, map[string]string{
		"model.pbit": "zip-bytes",
		"answer.txt": "my answer",
	})

	workPath, cleanup, err := Resolve(path)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(workPath, "model.pbit"))
	assert.FileExists(t, filepath.Join(workPath, "answer.txt"))

	cleanup()
	assert.NoDirExists(t, workPath)
}

func TestResolve_StandaloneFile(t *testing.T) {
	for _, ext := range []string{".pbit", ".pdf", ".txt"} {
		path := filepath.Join(t.TempDir(), "artifact"+ext)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		workPath, cleanup, err := Resolve(path)
		require.NoError(t, err)
		defer cleanup()
		assert.Equal(t, path, workPath)
	}
}

func TestResolve_Missing(t *testing.T) {
	_, _, err := Resolve(filepath.Join(t.TempDir(), "gone"))
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestResolve_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, _, err := Resolve(path)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestFindByExt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Model.PBIT"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	assert.Equal(t, filepath.Join(dir, "Model.PBIT"), FindByExt(dir, ".pbit"))
	assert.Equal(t, filepath.Join(dir, "notes.txt"), FindByExt(dir, ".txt"))
	// Directories never match, even with a matching name.
	assert.Equal(t, "", FindByExt(dir, ".pdf"))
	assert.Equal(t, "", FindByExt(filepath.Join(dir, "missing"), ".txt"))
}

func TestCheckPDF_Missing(t *testing.T) {
	_, err := CheckPDF(filepath.Join(t.TempDir(), "report.pdf"))
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCheckPDF_WrongExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := CheckPDF(path)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestCheckPDF_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := CheckPDF(path)
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}
