package database

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("record not found")

// ValidationError rejects a mutation because of one input field. Nothing is
// written when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid [%s]: %s", e.Field, e.Message)
}

func AsValidationError(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target, true
	}

	return nil, false
}
