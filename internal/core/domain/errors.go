package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers entities that are absent and, at the list level,
	// entities that belong to another user. The two cases are deliberately
	// indistinguishable so callers cannot probe for other users' data.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned by todo operations when the parent list
	// exists but is owned by someone else.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is the single authentication failure. It covers
	// both unknown email and wrong password so login responses do not leak
	// which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError is a user-correctable input problem tied to one field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// AsValidationError unwraps err into a ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
