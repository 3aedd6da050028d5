package chronicle

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	toolsDir  string
	converter string
	search    string
	workspace string

	timeout       time.Duration
	maxConcurrent int
	defaultLimit  int

	logger *zap.Logger
}

// WithToolsDir sets the directory holding md2json and aiquery.
// Defaults to the directory of the running executable.
func WithToolsDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.toolsDir = dir
	})
}

// WithConverter overrides the converter executable (name or absolute path).
func WithConverter(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.converter = path
	})
}

// WithSearchTool overrides the search executable (name or absolute path).
func WithSearchTool(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.search = path
	})
}

// WithWorkspace sets the scratch directory. Default: $TMPDIR/ai-chronicle.
func WithWorkspace(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.workspace = dir
	})
}

// WithTimeout caps a single tool run. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithMaxConcurrent caps simultaneously running tool processes. Default: 4.
func WithMaxConcurrent(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxConcurrent = n
	})
}

// WithDefaultLimit sets the result limit used when a search passes none. Default: 10.
func WithDefaultLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = n
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// SearchOption tunes a single search.
type SearchOption interface {
	applySearch(*searchConfig)
}

type searchOptionFunc func(*searchConfig)

func (f searchOptionFunc) applySearch(c *searchConfig) { f(c) }

type searchConfig struct {
	limit         *int
	caseSensitive bool
}

// Limit caps the number of results. 0 lets the search tool decide.
func Limit(n int) SearchOption {
	return searchOptionFunc(func(c *searchConfig) {
		c.limit = &n
	})
}

// CaseSensitive is accepted for parity with the HTTP API. The search tool has
// no case flag, so it currently has no effect.
func CaseSensitive() SearchOption {
	return searchOptionFunc(func(c *searchConfig) {
		c.caseSensitive = true
	})
}
