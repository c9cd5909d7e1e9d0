package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText is returned when a todo's text is empty after sanitizing.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrTextTooLong is returned when a todo's text exceeds MaxTextLength.
	ErrTextTooLong = errors.New("text exceeds maximum length")

	// ErrMemoTooLong is returned when a memo exceeds MaxMemoLength.
	ErrMemoTooLong = errors.New("memo exceeds maximum length")

	// ErrInvalidPriority is returned for an unknown priority value.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidRepeat is returned for an unknown recurrence rule.
	ErrInvalidRepeat = errors.New("invalid repeat")

	// ErrStartAfterDue is returned when a start date falls after the due date.
	ErrStartAfterDue = errors.New("start date is after due date")

	// ErrEmptyListName is returned when a list name is empty after sanitizing.
	ErrEmptyListName = errors.New("list name cannot be empty")

	// ErrListNameTooLong is returned when a list name exceeds MaxListNameLength.
	ErrListNameTooLong = errors.New("list name exceeds maximum length")

	// ErrDefaultListProtected is returned when deleting the default list.
	ErrDefaultListProtected = errors.New("default list cannot be deleted")

	// ErrFileTooLarge is returned when an attachment exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file exceeds maximum size")
)

// ValidationError rejects a mutation. The store is left unchanged.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// PersistenceError reports a failed read or write of a stored document.
// In-memory state stays authoritative when a write fails.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ParseError reports a malformed stored document. The affected collection
// falls back to its empty or default value.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
