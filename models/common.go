package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a record id is not in the current listing
	ErrNotFound = errors.New("record not found")

	// ErrStaleRow is returned when a serial can no longer be located in the sheet right before a write
	ErrStaleRow = errors.New("record row no longer present in sheet")

	// ErrForbidden is returned when the caller's role does not allow the operation
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned by login for an unknown user or wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserExists is returned when creating a user whose username is taken
	ErrUserExists = errors.New("user already exists")
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// HasErrors returns true if there are validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// GetMessages returns all error messages as a slice of strings
func (ve ValidationErrors) GetMessages() []string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Message
	}
	return messages
}

// Error implements error so a ValidationErrors value can travel up the stack
func (ve ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(ve.GetMessages(), ", ")
}

// PersistenceError wraps a failed write to the backing sheet
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// FormatDate formats a time as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatTimestamp formats a time the way audit entries and lastModifiedDate store it
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp parses a stored audit/modification timestamp
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
