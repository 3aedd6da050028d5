package scratch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/chronicle-gateway/internal/logger"
	"github.com/kailas-cloud/chronicle-gateway/internal/metrics"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// Store manages request-scoped scratch files in a single workspace directory.
// Every file name carries a timestamp and a random UUID, so concurrent requests
// never share a path.
type Store struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// New creates a scratch store rooted at dir. Call Ensure before first use.
func New(dir string, logger *zap.Logger) *Store {
	return &Store{dir: dir, logger: logger, now: time.Now}
}

// Dir returns the workspace directory.
func (s *Store) Dir() string { return s.dir }

// Ensure creates the workspace directory (with parents) and verifies it is writable.
// Safe to call repeatedly.
func (s *Store) Ensure() error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("create workspace %s: %w", s.dir, err)
	}
	probe, err := os.CreateTemp(s.dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("workspace %s not writable: %w", s.dir, err)
	}
	name := probe.Name()
	_ = probe.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("remove workspace probe: %w", err)
	}
	return nil
}

// Write stores content in a new uniquely named file and returns its absolute path.
// Only the base of name is used.
func (s *Store) Write(content []byte, name string) (string, error) {
	unique := fmt.Sprintf("%d_%s_%s", s.now().UnixMilli(), uuid.NewString(), filepath.Base(name))
	path, err := filepath.Abs(filepath.Join(s.dir, unique))
	if err != nil {
		return "", fmt.Errorf("resolve scratch path: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close scratch file: %w", err)
	}
	return path, nil
}

// Read returns the content of a scratch file.
func (s *Store) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read scratch file: %w", err)
	}
	return data, nil
}

// Remove deletes a scratch file if present. Failures are logged and swallowed:
// a stale file must never change a response that is already decided.
func (s *Store) Remove(ctx context.Context, path string) {
	err := os.Remove(path)
	switch {
	case err == nil:
		metrics.ScratchFilesRemovedTotal.WithLabelValues("request", "ok").Inc()
	case errors.Is(err, fs.ErrNotExist):
		// already gone
	default:
		metrics.ScratchFilesRemovedTotal.WithLabelValues("request", "error").Inc()
		logpkg.FromContext(ctx, s.logger).Warn("Failed to remove scratch file",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// Sweep removes regular files last modified more than maxAge ago and returns
// how many were removed. It catches files orphaned by crashes or killed runs.
func (s *Store) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("list workspace: %w", err)
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, e.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			metrics.ScratchFilesRemovedTotal.WithLabelValues("sweep", "error").Inc()
			s.logger.Warn("Failed to sweep scratch file", zap.String("path", path), zap.Error(err))
			continue
		}
		metrics.ScratchFilesRemovedTotal.WithLabelValues("sweep", "ok").Inc()
		removed++
	}
	return removed, nil
}
