package task

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("task not found")
	ErrIDExhausted = errors.New("task id space exhausted")
)

// StorageError means the data file could not be read or written.
type StorageError struct {
	Op    string
	Path  string
	Cause error
}

func (e *StorageError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("storage failure (%s %s): %v", e.Op, e.Path, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }

// FormatError means the data file content is not a valid task collection.
// No partial recovery is attempted.
type FormatError struct {
	Path  string
	Cause error
}

func (e *FormatError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("format failure (%s): %v", e.Path, e.Cause)
}

func (e *FormatError) Unwrap() error { return e.Cause }

// NotFoundError is returned by Read, Update and Delete for an absent id.
// It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	ID uint32
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("task with id %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
