package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every *ValidationError
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("action not allowed for role")
	ErrTerminal          = errors.New("request is already completed")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNotFound          = errors.New("request not found")
)

// ValidationError rejects a user action before any state is touched
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
