package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestToolFailureError(t *testing.T) {
	err := NewToolFailure("md2json", ToolResult{ExitCode: 2, Stderr: "bad input"})
	wrapped := fmt.Errorf("convert: %w", err)

	if !errors.Is(wrapped, ErrToolFailed) {
		t.Fatal("expected errors.Is(ErrToolFailed)")
	}

	var tfe *ToolFailureError
	if !errors.As(wrapped, &tfe) {
		t.Fatal("expected errors.As(*ToolFailureError)")
	}
	if tfe.Code != 2 || tfe.Stderr != "bad input" || tfe.Tool != "md2json" {
		t.Errorf("unexpected fields: %+v", tfe)
	}
	if got, want := err.Error(), "tool failed: md2json exited with code 2"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestOutputReadError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := fmt.Errorf("read output: %w", &OutputReadError{Err: cause})

	if !errors.Is(err, ErrOutputRead) {
		t.Error("expected errors.Is(ErrOutputRead)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable")
	}

	var ore *OutputReadError
	if !errors.As(err, &ore) {
		t.Fatal("expected errors.As(*OutputReadError)")
	}
	if ore.Details() != "unexpected end of JSON input" {
		t.Errorf("Details() = %q", ore.Details())
	}
	if (&OutputReadError{}).Details() != "" {
		t.Error("expected empty details for nil cause")
	}
}

func TestToolResult_Succeeded(t *testing.T) {
	if !(ToolResult{}).Succeeded() {
		t.Error("exit 0 should succeed")
	}
	if (ToolResult{ExitCode: 1}).Succeeded() {
		t.Error("exit 1 should not succeed")
	}
	if (ToolResult{ExitCode: -1}).Succeeded() {
		t.Error("signalled process should not succeed")
	}
}
