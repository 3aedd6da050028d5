package process

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chronicle-gateway/internal/domain"
)

// writeTool writes an executable shell script and returns its path.
func writeTool(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script tools need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write tool: %v", err)
	}
	return path
}

func newRunner(timeout time.Duration, maxConcurrent int) *Runner {
	return NewRunner(&Config{Timeout: timeout, MaxConcurrent: maxConcurrent, Logger: zap.NewNop()})
}

func TestRun_CapturesOutput(t *testing.T) {
	tool := writeTool(t, "md2json", `echo "Parsing markdown file..."; echo "warn" >&2`)

	res, err := newRunner(5*time.Second, 2).Run(context.Background(), tool, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Stdout != "Parsing markdown file...\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if res.Stderr != "warn\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestRun_ArgumentsPassedVerbatim(t *testing.T) {
	tool := writeTool(t, "aiquery", `for a in "$@"; do printf '[%s]\n' "$a"; done`)
	args := []string{"-l", "5", "two words; echo pwned", "/tmp/x.json"}

	res, err := newRunner(5*time.Second, 1).Run(context.Background(), tool, args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "[-l]\n[5]\n[two words; echo pwned]\n[/tmp/x.json]\n"
	if res.Stdout != want {
		t.Errorf("Stdout = %q, want %q", res.Stdout, want)
	}
}

func TestRun_NonZeroExitIsNotAnError(t *testing.T) {
	tool := writeTool(t, "md2json", `echo "Error: Failed to parse markdown file" >&2; exit 3`)

	res, err := newRunner(5*time.Second, 1).Run(context.Background(), tool, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "Failed to parse") {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestRun_MissingExecutable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "md2json")

	_, err := newRunner(time.Second, 1).Run(context.Background(), missing, nil)
	if !errors.Is(err, domain.ErrToolUnavailable) {
		t.Fatalf("expected ErrToolUnavailable, got %v", err)
	}
}

func TestRun_Timeout(t *testing.T) {
	tool := writeTool(t, "aiquery", `exec sleep 5`)

	start := time.Now()
	_, err := newRunner(100*time.Millisecond, 1).Run(context.Background(), tool, nil)
	if !errors.Is(err, domain.ErrToolTimeout) {
		t.Fatalf("expected ErrToolTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("run was not killed promptly: %s", elapsed)
	}
}

func TestRun_ParentCanceled(t *testing.T) {
	tool := writeTool(t, "aiquery", `exec sleep 5`)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := newRunner(10*time.Second, 1).Run(ctx, tool, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, domain.ErrToolTimeout) {
		t.Error("cancellation must not be reported as a timeout")
	}
}

func TestRun_WaitsForSlot(t *testing.T) {
	tool := writeTool(t, "md2json", `exit 0`)
	r := newRunner(time.Second, 1)

	if err := r.sem.Acquire(context.Background(), 1); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer r.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := r.Run(ctx, tool, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected slot wait to end with ctx deadline, got %v", err)
	}
}

func TestNewRunner_MinimumConcurrency(t *testing.T) {
	r := NewRunner(&Config{MaxConcurrent: 0, Logger: zap.NewNop()})
	if !r.sem.TryAcquire(1) {
		t.Fatal("expected one slot")
	}
	if r.sem.TryAcquire(1) {
		t.Fatal("expected exactly one slot")
	}
	r.sem.Release(1)
}

func TestPresent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "md2json")
	if err := os.WriteFile(file, []byte("x"), 0o755); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := newRunner(time.Second, 1)
	if !r.Present(file) {
		t.Error("expected existing file to be present")
	}
	if r.Present(filepath.Join(dir, "aiquery")) {
		t.Error("missing file reported present")
	}
	if r.Present(dir) {
		t.Error("directory reported present")
	}
}
