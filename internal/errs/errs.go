// internal/errs/errs.go
package errs

import "errors"

// Sentinel error classes for the export pipeline. Callers classify with
// errors.Is; sites wrap these with %w and a human-readable detail.
var (
	// ErrInvalidArgument marks a missing or empty required construction
	// parameter. Raised before any store or network handle is opened.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks an empty chromosome resolution. Fatal before any
	// output is written.
	ErrNotFound = errors.New("not found")

	// ErrIO marks merged-header construction failures and sink I/O errors.
	ErrIO = errors.New("i/o failure")

	// ErrConversion marks a single record that failed conversion or
	// enrichment. Never fatal: counted per window and logged.
	ErrConversion = errors.New("record conversion failed")
)
