package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a code resolved to nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateCode means code generation kept colliding with
	// existing registry entries. Never shown to end users.
	ErrDuplicateCode = errors.New("duplicate code")
	// ErrEmptyBatch rejects batch creation with zero files.
	ErrEmptyBatch = errors.New("batch has no files")
)

// ValidationError carries a user-facing corrective message for bad
// command arguments.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
