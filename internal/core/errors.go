package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized covers every authentication failure so callers cannot
	// tell an unknown email from a wrong password.
	ErrUnauthorized    = errors.New("invalid or missing credentials")
	ErrProjectNotFound = errors.New("project not found")
)

// ValidationError reports bad client input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

type QuotaExceededError struct {
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("You've reached your limit of %d projects. Please delete existing projects to create new ones.", e.Limit)
}
