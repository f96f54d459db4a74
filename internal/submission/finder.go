// Package submission resolves student submission bundles into working
// directories and locates the graded artifacts inside them.
package submission

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/feichai0017/pbit-mentor/internal/errs"
	"github.com/feichai0017/pbit-mentor/internal/pbit"
)

// Accepted standalone submission files when the student uploads a
// single artifact instead of a bundle.
var submissionExts = map[string]bool{
	".pbit": true,
	".pdf":  true,
	".txt":  true,
}

// Resolve turns a submission path into a directory or file the graders
// can work on. ZIP bundles are extracted to a temporary directory; the
// returned cleanup func removes it and is a no-op otherwise.
func Resolve(path string) (workPath string, cleanup func(), err error) {
	noop := func() {}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", noop, fmt.Errorf("%w: submission path %s", errs.ErrNotFound, path)
		}
		return "", noop, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return path, noop, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".zip":
		dir, err := pbit.ExtractArchive(path)
		if err != nil {
			return "", noop, err
		}
		return dir, func() { os.RemoveAll(dir) }, nil
	case submissionExts[ext]:
		return path, noop, nil
	default:
		return "", noop, fmt.Errorf("%w: submission must be a directory, ZIP bundle or .pbit/.pdf/.txt file, got %q", errs.ErrInvalidFormat, ext)
	}
}

// FindByExt returns the path of the first regular file in dir with the
// given extension (case-insensitive), or "" when none exists.
func FindByExt(dir, ext string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	ext = strings.ToLower(ext)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) == ext {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}
