package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	osexec "os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/kailas-cloud/chronicle-gateway/internal/domain"
	logpkg "github.com/kailas-cloud/chronicle-gateway/internal/logger"
	"github.com/kailas-cloud/chronicle-gateway/internal/metrics"
)

// waitDelay bounds how long Wait keeps draining pipes after the process is killed.
const waitDelay = 2 * time.Second

// Run outcomes used as metric labels.
const (
	outcomeOK          = "ok"
	outcomeExitNonZero = "exit_nonzero"
	outcomeTimeout     = "timeout"
	outcomeUnavailable = "unavailable"
	outcomeCanceled    = "canceled"
	outcomeError       = "error"
)

// Runner executes external tools directly (argument vector, no shell) and
// captures their output. Runs are bounded in time and in concurrency.
type Runner struct {
	timeout time.Duration
	sem     *semaphore.Weighted
	logger  *zap.Logger
}

// Config holds the runner settings.
type Config struct {
	// Timeout caps a single run; the process is killed on expiry. 0 disables it.
	Timeout time.Duration
	// MaxConcurrent caps simultaneously running processes. Values < 1 mean 1.
	MaxConcurrent int
	Logger        *zap.Logger
}

// NewRunner creates a tool runner.
func NewRunner(cfg *Config) *Runner {
	limit := int64(cfg.MaxConcurrent)
	if limit < 1 {
		limit = 1
	}
	return &Runner{
		timeout: cfg.Timeout,
		sem:     semaphore.NewWeighted(limit),
		logger:  cfg.Logger,
	}
}

// Run starts the executable at path with args and waits for it to exit.
// A non-zero exit code is returned in the result, not as an error. Errors are
// reserved for runs that could not start (domain.ErrToolUnavailable), were
// killed by the timeout (domain.ErrToolTimeout) or were canceled by ctx.
func (r *Runner) Run(ctx context.Context, path string, args []string) (domain.ToolResult, error) {
	tool := filepath.Base(path)
	log := logpkg.FromContext(ctx, r.logger)

	if err := r.sem.Acquire(ctx, 1); err != nil {
		metrics.ToolRunsTotal.WithLabelValues(tool, outcomeCanceled).Inc()
		return domain.ToolResult{}, fmt.Errorf("wait for %s slot: %w", tool, err)
	}
	defer r.sem.Release(1)

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := osexec.CommandContext(runCtx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	inFlight := metrics.ToolInFlight.WithLabelValues(tool)
	inFlight.Inc()
	defer inFlight.Dec()

	start := time.Now()
	if err := cmd.Start(); err != nil {
		metrics.ToolRunsTotal.WithLabelValues(tool, outcomeUnavailable).Inc()
		log.Error("Tool could not be started",
			zap.String("tool", tool),
			zap.String("path", path),
			zap.Error(err),
		)
		return domain.ToolResult{}, fmt.Errorf("start %s: %w: %w", tool, domain.ErrToolUnavailable, err)
	}

	waitErr := cmd.Wait()
	duration := time.Since(start)
	metrics.ToolRunDuration.WithLabelValues(tool).Observe(duration.Seconds())

	res := domain.ToolResult{Stdout: stdout.String(), Stderr: stderr.String()}

	if waitErr != nil {
		switch {
		case ctx.Err() != nil:
			metrics.ToolRunsTotal.WithLabelValues(tool, outcomeCanceled).Inc()
			log.Warn("Tool run canceled", zap.String("tool", tool), zap.Duration("duration", duration))
			return res, fmt.Errorf("run %s: %w", tool, ctx.Err())
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			metrics.ToolRunsTotal.WithLabelValues(tool, outcomeTimeout).Inc()
			log.Error("Tool run timed out",
				zap.String("tool", tool),
				zap.Duration("timeout", r.timeout),
			)
			return res, fmt.Errorf("%s after %s: %w", tool, r.timeout, domain.ErrToolTimeout)
		}

		var exitErr *osexec.ExitError
		if !errors.As(waitErr, &exitErr) {
			metrics.ToolRunsTotal.WithLabelValues(tool, outcomeError).Inc()
			return res, fmt.Errorf("wait %s: %w", tool, waitErr)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	outcome := outcomeOK
	if !res.Succeeded() {
		outcome = outcomeExitNonZero
	}
	metrics.ToolRunsTotal.WithLabelValues(tool, outcome).Inc()

	log.Debug("Tool run completed",
		zap.String("tool", tool),
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("duration", duration),
		zap.Int("stdout_bytes", len(res.Stdout)),
		zap.Int("stderr_bytes", len(res.Stderr)),
	)

	return res, nil
}

// Present reports whether an executable file exists at path. It only stats the path.
func (r *Runner) Present(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
