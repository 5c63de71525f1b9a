package device

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestDeviceErrorTypes tests the type predicates and messages.
func TestDeviceErrorTypes(t *testing.T) {
	transport := NewTransportError("fgt-1", "command send failed", errors.New("broken pipe"))
	command := NewCommandError("fgt-1", "get system status", "Command fail. Return code -61")
	validation := NewValidationError("no snapshot available for rollback")

	if !IsTransportError(transport) || IsTransportError(command) || IsTransportError(validation) {
		t.Error("IsTransportError misclassified")
	}
	if !IsCommandError(command) || IsCommandError(transport) {
		t.Error("IsCommandError misclassified")
	}
	if !IsValidationError(validation) || IsValidationError(command) {
		t.Error("IsValidationError misclassified")
	}

	if !strings.Contains(transport.Error(), "broken pipe") {
		t.Errorf("Expected underlying cause in message, got %q", transport.Error())
	}
}

// TestDeviceErrorUnwrap tests error chain inspection through wrapping.
func TestDeviceErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("during reload: %w", NewTransportError("fgt-1", "command send failed", cause))

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the underlying cause")
	}
	if !IsTransportError(err) {
		t.Error("Expected IsTransportError to see through wrapping")
	}
}

// TestCommitErrorMessage tests that the failure list is rendered for
// diagnostics.
func TestCommitErrorMessage(t *testing.T) {
	err := &CommitError{Failed: []BatchEntry{
		{StatusCode: -5, Command: "set a 2"},
		{StatusCode: -23, Command: "set b 9"},
	}}

	msg := err.Error()
	for _, want := range []string{"commit failed", "2 command(s)", "(-5) set a 2", "(-23) set b 9"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in %q", want, msg)
		}
	}

	rollback := &CommitError{Rollback: true, Failed: []BatchEntry{{StatusCode: -1, Command: "set a 1"}}}
	if !strings.Contains(rollback.Error(), "rollback failed") {
		t.Errorf("Expected rollback flavor, got %q", rollback.Error())
	}
}
