// Package apperr defines the failure kinds shared by the registry, descriptor
// and operation layers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a registry lookup by name had no match.
	ErrNotFound = errors.New("not found")
	// ErrValidation means user input or a source file failed a precondition.
	ErrValidation = errors.New("validation failed")
	// ErrIO means a move, chmod, read or write failed.
	ErrIO = errors.New("i/o failure")
	// ErrAborted means the user declined a confirmation.
	ErrAborted = errors.New("aborted")
)

// NotFound returns an ErrNotFound for the named entry.
func NotFound(name string) error {
	return fmt.Errorf("%w: entry %q", ErrNotFound, name)
}

// Validation returns an ErrValidation with a formatted message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IO wraps err as an ErrIO describing the step that failed.
func IO(step string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, step, err)
}

// Aborted returns an ErrAborted naming what the user declined.
func Aborted(what string) error {
	return fmt.Errorf("%w: %s", ErrAborted, what)
}

// Kind returns a short label for the failure class of err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrAborted):
		return "aborted"
	case errors.Is(err, ErrIO):
		return "i/o"
	default:
		return "error"
	}
}
