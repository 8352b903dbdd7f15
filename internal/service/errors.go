package service

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrNoFields       = errors.New("no valid fields to update")
	ErrCategoryExists = errors.New("category already exists")
)

// ValidationError reports a user-correctable problem with an input field.
// It is always raised before any write, so invalid input is never persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
