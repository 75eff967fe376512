// Package learn implements the flashcard review session: filter
// selection over word statuses, a shuffled deck snapshot, per-card
// reveal/judge/advance, and session statistics.
//
// A Session is driven from a single goroutine (the UI event loop
// equivalent). Calls that are illegal for the current phase are
// programming errors and panic; preconditions the caller can check
// (an empty filter selection) are reported as errors instead.
package learn

import (
	"errors"
	"fmt"
)

// Common session errors.
var (
	// ErrEmptySelection is returned by Start and Restart when the
	// current filter selection matches no words. Callers are expected
	// to check FilteredCount before starting.
	ErrEmptySelection = errors.New("no words match the selected statuses")
)

// ServiceError wraps errors from the learning session with additional context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "judge")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewJudgeError returns a new ServiceError for the judge operation.
func NewJudgeError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "judge",
		Message:   message,
		Err:       err,
	}
}
