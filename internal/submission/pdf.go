package submission

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/feichai0017/pbit-mentor/internal/errs"
)

// CheckPDF verifies that path points at a readable PDF and returns its
// page count. Used before shipping the document to a remote evaluator.
func CheckPDF(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: pdf %s", errs.ErrNotFound, path)
		}
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() || strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return 0, fmt.Errorf("%w: %s is not a PDF file", errs.ErrInvalidFormat, path)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s does not parse as PDF: %v", errs.ErrInvalidFormat, path, err)
	}
	defer f.Close()

	pages := reader.NumPage()
	if pages == 0 {
		return 0, fmt.Errorf("%w: %s has no pages", errs.ErrInvalidFormat, path)
	}
	return pages, nil
}
