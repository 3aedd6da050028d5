package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/kailas-cloud/chronicle-gateway/internal/domain"
	"github.com/kailas-cloud/chronicle-gateway/internal/domain/conversion"
)

// Service converts markdown conversation exports to JSON with the external converter.
type Service struct {
	runner        ToolRunner
	scratch       ScratchStore
	converterPath string
}

// New creates a conversion service.
func New(runner ToolRunner, scratch ScratchStore, converterPath string) *Service {
	return &Service{runner: runner, scratch: scratch, converterPath: converterPath}
}

// Convert writes the markdown to a scratch file, runs "converter <input> <output>"
// and returns the output document. Both scratch files are removed before it
// returns, whatever the outcome.
func (s *Service) Convert(ctx context.Context, req *conversion.Request) (conversion.Result, error) {
	inputPath, err := s.scratch.Write([]byte(req.Content()), req.ScratchName())
	if err != nil {
		return conversion.Result{}, fmt.Errorf("write input: %w", err)
	}
	outputPath := conversion.OutputPath(inputPath)
	defer s.scratch.Remove(ctx, inputPath)
	defer s.scratch.Remove(ctx, outputPath)

	res, err := s.runner.Run(ctx, s.converterPath, []string{inputPath, outputPath})
	if err != nil {
		return conversion.Result{}, fmt.Errorf("run converter: %w", err)
	}
	if !res.Succeeded() {
		return conversion.Result{}, domain.NewToolFailure(filepath.Base(s.converterPath), res)
	}

	data, err := s.scratch.Read(outputPath)
	if err != nil {
		return conversion.Result{}, &domain.OutputReadError{Err: err}
	}
	var doc json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return conversion.Result{}, &domain.OutputReadError{Err: fmt.Errorf("parse output JSON: %w", err)}
	}

	return conversion.Result{Data: doc, Output: res.Stdout}, nil
}
