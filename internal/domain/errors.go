package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidItem = errors.New("invalid item")

// ValidationError reports input that was rejected before any write happened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
