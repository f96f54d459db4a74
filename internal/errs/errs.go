// Package errs defines the error categories shared across the grading
// pipeline. Callers classify failures with errors.Is and attach context
// with fmt.Errorf("...: %w", ...).
package errs

import "errors"

var (
	// ErrNotFound indicates a referenced path, file or embedded document
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidFormat indicates a path exists but is not the expected
	// container or document type.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrMalformedContent indicates content that is present but does not
	// parse into the expected shape.
	ErrMalformedContent = errors.New("malformed content")

	// ErrCorrupt indicates an archive that looked valid but failed
	// mid-extraction.
	ErrCorrupt = errors.New("corrupt archive")
)
