package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidStatus is returned when a word status is not one of the
	// three known values.
	ErrInvalidStatus = errors.New("invalid word status")

	// ErrInvalidOutcome is returned when a session judgment is not one
	// of the three known values.
	ErrInvalidOutcome = errors.New("invalid judgment outcome")
)
