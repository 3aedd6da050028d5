package chronicle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chronicle-gateway/internal/domain/conversion"
	"github.com/kailas-cloud/chronicle-gateway/internal/domain/search/request"
	"github.com/kailas-cloud/chronicle-gateway/internal/repository/scratch"
	"github.com/kailas-cloud/chronicle-gateway/internal/transport/process"
	convertuc "github.com/kailas-cloud/chronicle-gateway/internal/usecase/convert"
	healthuc "github.com/kailas-cloud/chronicle-gateway/internal/usecase/health"
	searchuc "github.com/kailas-cloud/chronicle-gateway/internal/usecase/search"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultMaxConcurrent = 4
)

// Client is the chronicle SDK entry point. It is safe for concurrent use.
type Client struct {
	store        *scratch.Store
	convertSvc   *convertuc.Service
	searchSvc    *searchuc.Service
	healthSvc    *healthuc.Service
	defaultLimit int
}

// New creates a Client and prepares its workspace directory.
// Missing tools are not an error here; check Health or handle ErrToolUnavailable.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		converter:     "md2json",
		search:        "aiquery",
		workspace:     filepath.Join(os.TempDir(), "ai-chronicle"),
		timeout:       defaultTimeout,
		maxConcurrent: defaultMaxConcurrent,
		defaultLimit:  request.DefaultLimit,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.toolsDir == "" {
		cfg.toolsDir = executableDir()
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	store := scratch.New(cfg.workspace, cfg.logger)
	if err := store.Ensure(); err != nil {
		return nil, fmt.Errorf("chronicle: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store *scratch.Store, cfg *clientConfig) *Client {
	runner := process.NewRunner(&process.Config{
		Timeout:       cfg.timeout,
		MaxConcurrent: cfg.maxConcurrent,
		Logger:        cfg.logger,
	})
	converterPath := resolveTool(cfg.toolsDir, cfg.converter)
	searchPath := resolveTool(cfg.toolsDir, cfg.search)

	return &Client{
		store:        store,
		convertSvc:   convertuc.New(runner, store, converterPath),
		searchSvc:    searchuc.New(runner, store, searchPath),
		healthSvc:    healthuc.New(runner, converterPath, searchPath),
		defaultLimit: cfg.defaultLimit,
	}
}

// Convert turns a markdown conversation export into the converter's JSON document.
func (c *Client) Convert(ctx context.Context, content, filename string) (Conversion, error) {
	req, err := conversion.New(content, filename)
	if err != nil {
		return Conversion{}, fmt.Errorf("convert: %w", err)
	}
	res, err := c.convertSvc.Convert(ctx, &req)
	if err != nil {
		return Conversion{}, fmt.Errorf("convert: %w", err)
	}
	return Conversion{Data: res.Data, Output: res.Output}, nil
}

// Search runs a keyword search over a converted conversation document.
func (c *Client) Search(ctx context.Context, term string, document json.RawMessage, opts ...SearchOption) (SearchResults, error) {
	var sc searchConfig
	for _, o := range opts {
		o.applySearch(&sc)
	}

	req, err := request.New(term, document, sc.limit, sc.caseSensitive, c.defaultLimit)
	if err != nil {
		return SearchResults{}, fmt.Errorf("search: %w", err)
	}
	out, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return SearchResults{}, fmt.Errorf("search: %w", err)
	}

	results := make([]Result, len(out.Results))
	for i, r := range out.Results {
		results[i] = Result{Number: r.Number, Type: r.Type, Order: r.Order, Parent: r.Parent, Text: r.Text}
	}
	return SearchResults{Results: results, RawOutput: out.RawOutput}, nil
}

// Health reports which tools are installed.
func (c *Client) Health(ctx context.Context) HealthStatus {
	r := c.healthSvc.Check(ctx)
	return HealthStatus{
		Status:    string(r.Status),
		Converter: r.Converter,
		Search:    r.Search,
		Ready:     r.Ready(),
		Message:   r.Message(),
	}
}

// Sweep removes scratch files older than maxAge left behind by killed runs.
func (c *Client) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	n, err := c.store.Sweep(ctx, maxAge)
	if err != nil {
		return n, fmt.Errorf("sweep: %w", err)
	}
	return n, nil
}

func resolveTool(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
