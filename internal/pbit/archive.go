package pbit

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/feichai0017/pbit-mentor/internal/errs"
)

// ExtractArchive extracts a ZIP container to a fresh temporary
// directory and returns its path. The caller owns cleanup of the
// returned directory. On any failure the partially created directory is
// removed and the error names the original path.
func ExtractArchive(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: archive %s", errs.ErrNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory, expected a ZIP file", errs.ErrInvalidFormat, path)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%w: %s is empty (0 bytes)", errs.ErrInvalidFormat, path)
	}

	// zip.OpenReader validates the central directory, so truncated or
	// misnamed files are rejected before anything is written to disk.
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not a valid ZIP archive: %v", errs.ErrInvalidFormat, path, err)
	}
	defer zr.Close()

	dir, err := os.MkdirTemp("", "pbit_")
	if err != nil {
		return "", fmt.Errorf("create workspace for %s: %w", path, err)
	}

	for _, f := range zr.File {
		if err := extractEntry(dir, f); err != nil {
			os.RemoveAll(dir)
			return "", fmt.Errorf("%w: extracting %q from %s: %v", errs.ErrCorrupt, f.Name, path, err)
		}
	}

	return dir, nil
}

func extractEntry(dir string, f *zip.File) error {
	target, err := sanitizePath(dir, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return err
	}
	return nil
}

// sanitizePath rejects entry names that would escape the workspace.
func sanitizePath(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("illegal entry path %q", name)
	}
	return target, nil
}
