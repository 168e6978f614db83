// Package region - error types for demonstration memory setup.
//
// Setup failures are fatal: the oracle cannot run without the memory it is
// supposed to read. They carry the failing operation and, where one exists,
// a hint for the operator.
//
// Example output:
//
//	mprotect secret page (4096 bytes): operation not permitted
//
//	Suggestion: run without --protect
package region

import (
	"errors"
	"fmt"
)

// ErrEmptySecret is returned when there is nothing to place in the region.
var ErrEmptySecret = errors.New("region: secret must not be empty")

// ErrProtectUnsupported is returned when page protection is requested on a
// platform without mprotect.
var ErrProtectUnsupported = errors.New("region: page protection not supported on this platform")

// SetupError describes a failed memory setup step.
//
// Fields:
//   - Op: the step that failed ("mmap region", "mprotect secret page", ...)
//   - Size: number of bytes involved
//   - Err: underlying cause
//   - Suggestion: optional hint, empty if none
type SetupError struct {
	Op         string
	Size       int
	Err        error
	Suggestion string
}

// Error implements the error interface.
//
// Format: op (size bytes): cause
//
// If Suggestion is non-empty, it's appended after a blank line.
func (e *SetupError) Error() string {
	result := fmt.Sprintf("%s (%d bytes): %v", e.Op, e.Size, e.Err)
	if e.Suggestion != "" {
		result += fmt.Sprintf("\n\nSuggestion: %s", e.Suggestion)
	}
	return result
}

// Unwrap returns the underlying cause for errors.Is / errors.As.
func (e *SetupError) Unwrap() error {
	return e.Err
}

func newSetupError(op string, size int, err error, suggestion string) *SetupError {
	return &SetupError{Op: op, Size: size, Err: err, Suggestion: suggestion}
}
