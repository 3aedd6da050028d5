package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/chronicle-gateway/internal/config"
	logpkg "github.com/kailas-cloud/chronicle-gateway/internal/logger"
	"github.com/kailas-cloud/chronicle-gateway/internal/metrics"
	"github.com/kailas-cloud/chronicle-gateway/internal/repository/scratch"
	chiTransport "github.com/kailas-cloud/chronicle-gateway/internal/transport/chi"
	"github.com/kailas-cloud/chronicle-gateway/internal/transport/process"
	convertuc "github.com/kailas-cloud/chronicle-gateway/internal/usecase/convert"
	healthuc "github.com/kailas-cloud/chronicle-gateway/internal/usecase/health"
	searchuc "github.com/kailas-cloud/chronicle-gateway/internal/usecase/search"
	"github.com/kailas-cloud/chronicle-gateway/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	var sink *logpkg.FileSink
	if cfg.Logging.File != "" {
		sink = &logpkg.FileSink{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}
	}
	logger, closeLog, err := logpkg.NewLogger(env, cfg.Logging.Level, sink)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
		_ = closeLog()
	}()

	converterPath := cfg.Tools.ConverterPath()
	searchPath := cfg.Tools.SearchPath()

	logger.Info("Starting chronicle gateway",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("workspace", cfg.Workspace.Dir),
	)

	metrics.RegisterToolMetrics()

	store := scratch.New(cfg.Workspace.Dir, logger)
	if err := store.Ensure(); err != nil {
		logger.Fatal("Workspace not usable", zap.Error(err))
	}

	runner := process.NewRunner(&process.Config{
		Timeout:       time.Duration(cfg.Tools.TimeoutSec) * time.Second,
		MaxConcurrent: cfg.Tools.MaxConcurrent,
		Logger:        logger,
	})

	// Missing tools are reported, not fatal: /health tells the extension what is absent.
	for _, tool := range []struct{ name, path string }{
		{"converter", converterPath},
		{"search", searchPath},
	} {
		if runner.Present(tool.path) {
			logger.Info("Tool found", zap.String("tool", tool.name), zap.String("path", tool.path))
		} else {
			logger.Warn("Tool not found", zap.String("tool", tool.name), zap.String("path", tool.path))
		}
	}

	server := chiTransport.NewServer(
		convertuc.New(runner, store, converterPath),
		searchuc.New(runner, store, searchPath),
		healthuc.New(runner, converterPath, searchPath),
		logger,
		chiTransport.Options{
			MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
			DefaultLimit: cfg.Tools.DefaultLimit,
		},
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr: addr,
		Handler: chiTransport.NewRouter(server, chiTransport.RouterConfig{
			AllowedOrigin: cfg.CORS.AllowedOrigin,
			APIKeys:       cfg.Auth.APIKeys,
			Logger:        logger,
		}),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		sweepScratch(gctx, store, logger,
			time.Duration(cfg.Workspace.SweepIntervalSec)*time.Second,
			time.Duration(cfg.Workspace.SweepMaxAgeSec)*time.Second,
		)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}

	logger.Info("Server stopped gracefully")
}

// sweepScratch removes stale scratch files on every tick until ctx is done.
func sweepScratch(ctx context.Context, store *scratch.Store, logger *zap.Logger, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Sweep(ctx, maxAge)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("Scratch sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Swept stale scratch files", zap.Int("removed", n))
			}
		}
	}
}
