package search

import (
	"context"

	"github.com/kailas-cloud/chronicle-gateway/internal/domain"
)

// ToolRunner runs an external executable and captures its output.
type ToolRunner interface {
	Run(ctx context.Context, path string, args []string) (domain.ToolResult, error)
}

// ScratchStore holds the serialized document while the search tool reads it.
type ScratchStore interface {
	Write(content []byte, name string) (string, error)
	Remove(ctx context.Context, path string)
}
