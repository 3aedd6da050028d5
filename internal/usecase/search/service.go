package search

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kailas-cloud/chronicle-gateway/internal/domain"
	"github.com/kailas-cloud/chronicle-gateway/internal/domain/search/report"
	"github.com/kailas-cloud/chronicle-gateway/internal/domain/search/request"
	"github.com/kailas-cloud/chronicle-gateway/internal/domain/search/result"
)

const documentName = "search.json"

// Outcome is a completed search: the parsed records plus the tool's raw report.
type Outcome struct {
	Results   []result.Record
	RawOutput string
}

// Service runs keyword searches over converted conversations.
type Service struct {
	runner     ToolRunner
	scratch    ScratchStore
	searchPath string
}

// New creates a search service.
func New(runner ToolRunner, scratch ScratchStore, searchPath string) *Service {
	return &Service{runner: runner, scratch: scratch, searchPath: searchPath}
}

// Search writes the document to a scratch file and runs the search tool over it.
func (s *Service) Search(ctx context.Context, req *request.Request) (Outcome, error) {
	path, err := s.scratch.Write(req.Document(), documentName)
	if err != nil {
		return Outcome{}, fmt.Errorf("write document: %w", err)
	}
	defer s.scratch.Remove(ctx, path)

	res, err := s.runner.Run(ctx, s.searchPath, req.Args(path))
	if err != nil {
		return Outcome{}, fmt.Errorf("run search: %w", err)
	}
	if !res.Succeeded() {
		return Outcome{}, domain.NewToolFailure(filepath.Base(s.searchPath), res)
	}

	return Outcome{Results: report.Parse(res.Stdout), RawOutput: res.Stdout}, nil
}
