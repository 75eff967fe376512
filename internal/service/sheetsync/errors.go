package sheetsync

import (
	"errors"
	"fmt"
	"strings"
)

// Common sync errors for the reconciler and remote client boundary.
var (
	// ErrAuthRequired is returned when a write is attempted without a
	// valid OAuth grant. The reconciler reacts by falling back to a
	// CSV export.
	ErrAuthRequired = errors.New("write access requires OAuth authentication")

	// ErrAuthExpired is returned when the access token was revoked or
	// expired mid-operation. Re-authentication is required; no data is
	// lost.
	ErrAuthExpired = errors.New("authentication expired, please re-authenticate")

	// ErrRemoteTransient is returned for network/HTTP failures. Local
	// state stays pending and the operation is safe to retry.
	ErrRemoteTransient = errors.New("transient remote failure")

	// ErrSyncInFlight is returned when a sync operation is requested
	// while another one is still outstanding. At most one remote call
	// runs at a time.
	ErrSyncInFlight = errors.New("a sync operation is already in progress")

	// ErrNotConnected is returned when a remote operation is requested
	// without spreadsheet connection settings.
	ErrNotConnected = errors.New("spreadsheet connection not configured")
)

// SetupError reports that the remote spreadsheet is missing the
// expected sheet or header row. It carries the exact header list so the
// user can fix the sheet.
type SetupError struct {
	ExpectedHeaders []string
}

// Error implements the error interface for SetupError.
func (e *SetupError) Error() string {
	return fmt.Sprintf("sheet setup required: add headers to row 1: %s",
		strings.Join(e.ExpectedHeaders, ", "))
}

// SyncError wraps errors from the sync reconciler with additional context.
type SyncError struct {
	// Operation is the operation that failed (e.g., "save", "load")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for SyncError.
func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSaveError returns a new SyncError for the save operation.
func NewSaveError(message string, err error) *SyncError {
	return &SyncError{Operation: "save", Message: message, Err: err}
}

// NewLoadError returns a new SyncError for the load operation.
func NewLoadError(message string, err error) *SyncError {
	return &SyncError{Operation: "load", Message: message, Err: err}
}
