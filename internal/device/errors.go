package device

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeTransport indicates the channel itself failed (connection
	// closed, timeout, dial error)
	ErrTypeTransport ErrorType = iota
	// ErrTypeCommand indicates the device rejected a command outside the
	// batch protocol ("Command fail" in the raw response)
	ErrTypeCommand
	// ErrTypeValidation indicates a misuse of the session (no snapshot to
	// roll back to, load before open, ...)
	ErrTypeValidation
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeCommand:
		return "Command Error"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError represents an error that occurred while talking to the device
type DeviceError struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Host    string    // Device host (for context)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport-level error. Transport errors are
// never retried by the commit engine; they propagate immediately.
func NewTransportError(host, message string, err error) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeTransport,
		Message: message,
		Host:    host,
		Err:     err,
	}
}

// NewCommandError creates an error for a command whose raw response signals
// failure, independent of the batch protocol.
func NewCommandError(host, command, output string) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeCommand,
		Message: fmt.Sprintf("device rejected command %q:\n%s", command, strings.TrimSpace(output)),
		Host:    host,
	}
}

// NewValidationError creates a session-misuse error
func NewValidationError(message string) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

// IsTransportError checks if an error is a transport error
func IsTransportError(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Type == ErrTypeTransport
}

// IsCommandError checks if an error is a command execution error
func IsCommandError(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Type == ErrTypeCommand
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var devErr *DeviceError
	return errors.As(err, &devErr) && devErr.Type == ErrTypeValidation
}

// CommitError is returned when a commit (or a rollback, which is itself a
// forced commit) could not be fully applied. It carries the per-command
// failures extracted from the batch log for diagnostics.
type CommitError struct {
	// Failed lists the batch entries with negative status codes that
	// survived the retry policy.
	Failed []BatchEntry

	// Rollback marks errors raised while rolling back rather than while
	// committing. There is no further fallback for these.
	Rollback bool
}

// Error implements the error interface
func (e *CommitError) Error() string {
	verb := "commit"
	if e.Rollback {
		verb = "rollback"
	}
	parts := make([]string, len(e.Failed))
	for i, entry := range e.Failed {
		parts[i] = fmt.Sprintf("(%d) %s", entry.StatusCode, entry.Command)
	}
	return fmt.Sprintf("%s failed: %d command(s) rejected: %s", verb, len(e.Failed), strings.Join(parts, "; "))
}

// AsCommitError extracts a CommitError from an error chain
func AsCommitError(err error) (*CommitError, bool) {
	var commitErr *CommitError
	if errors.As(err, &commitErr) {
		return commitErr, true
	}
	return nil, false
}
