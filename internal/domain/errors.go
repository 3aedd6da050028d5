package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a request missing a required field.
	ErrValidation = errors.New("validation failed")
	// ErrToolFailed signals an external tool that exited with a non-zero code.
	ErrToolFailed = errors.New("tool failed")
	// ErrToolUnavailable signals an external tool that could not be started.
	ErrToolUnavailable = errors.New("tool unavailable")
	// ErrToolTimeout signals an external tool killed after exceeding its time budget.
	ErrToolTimeout = errors.New("tool timed out")
	// ErrOutputRead signals a tool that exited 0 but whose output could not be read or parsed.
	ErrOutputRead = errors.New("tool output unreadable")
)

// ToolFailureError wraps ErrToolFailed with the captured diagnostics of the run.
type ToolFailureError struct {
	Tool   string
	Code   int
	Stderr string
}

func (e *ToolFailureError) Error() string {
	return fmt.Sprintf("%s: %s exited with code %d", ErrToolFailed.Error(), e.Tool, e.Code)
}

func (e *ToolFailureError) Unwrap() error { return ErrToolFailed }

// NewToolFailure creates a tool failure error from a completed run.
func NewToolFailure(tool string, res ToolResult) error {
	return &ToolFailureError{Tool: tool, Code: res.ExitCode, Stderr: res.Stderr}
}

// OutputReadError wraps ErrOutputRead with the underlying read or decode error.
type OutputReadError struct {
	Err error
}

func (e *OutputReadError) Error() string {
	return fmt.Sprintf("%s: %v", ErrOutputRead.Error(), e.Err)
}

// Is reports ErrOutputRead so callers can match the sentinel while Unwrap exposes the cause.
func (e *OutputReadError) Is(target error) bool { return target == ErrOutputRead }

func (e *OutputReadError) Unwrap() error { return e.Err }

// Details returns the underlying error message shown to clients.
func (e *OutputReadError) Details() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
