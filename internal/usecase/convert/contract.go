package convert

import (
	"context"

	"github.com/kailas-cloud/chronicle-gateway/internal/domain"
)

// ToolRunner runs an external executable and captures its output.
type ToolRunner interface {
	Run(ctx context.Context, path string, args []string) (domain.ToolResult, error)
}

// ScratchStore holds request-scoped scratch files.
type ScratchStore interface {
	Write(content []byte, name string) (string, error)
	Read(path string) ([]byte, error)
	Remove(ctx context.Context, path string)
}
