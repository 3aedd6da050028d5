package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chronicle-gateway/internal/domain/conversion"
	"github.com/kailas-cloud/chronicle-gateway/internal/domain/search/request"
	convertuc "github.com/kailas-cloud/chronicle-gateway/internal/usecase/convert"
	healthuc "github.com/kailas-cloud/chronicle-gateway/internal/usecase/health"
	searchuc "github.com/kailas-cloud/chronicle-gateway/internal/usecase/search"
)

// Server holds the HTTP handlers of the gateway.
type Server struct {
	convert       *convertuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	maxBodyBytes  int64
	defaultLimit  int
	errorHandlers []errorHandler
}

// Options tune request handling. Zero values select defaults.
type Options struct {
	MaxBodyBytes int64 // default 32 MiB
	DefaultLimit int   // search limit when the client sends none
}

// NewServer creates an HTTP API server.
func NewServer(
	convert *convertuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	opts Options,
) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 32 << 20
	}
	return &Server{
		convert:       convert,
		search:        search,
		health:        health,
		logger:        logger,
		maxBodyBytes:  opts.MaxBodyBytes,
		defaultLimit:  opts.DefaultLimit,
		errorHandlers: defaultErrorHandlers(),
	}
}

// HealthCheck handles GET /health. It is 200 whether or not the tools are installed.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthToDTO(s.health.Check(r.Context())))
}

// Convert handles POST /convert.
func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	var body convertRequest
	if !s.decode(w, r, &body) {
		return
	}

	req, err := conversion.New(body.Content, body.Filename)
	if err != nil {
		s.handleDomainError(w, r, err, convertOp)
		return
	}

	res, err := s.convert.Convert(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err, convertOp)
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{Success: true, Data: res.Data, Output: res.Output})
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if !s.decode(w, r, &body) {
		return
	}

	var (
		limit         *int
		caseSensitive bool
	)
	if body.Options != nil {
		limit = body.Options.Limit
		caseSensitive = body.Options.CaseSensitive
	}

	req, err := request.New(body.SearchTerm, body.JSONData, limit, caseSensitive, s.defaultLimit)
	if err != nil {
		s.handleDomainError(w, r, err, searchOp)
		return
	}

	out, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err, searchOp)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Success:   true,
		Results:   recordsToDTO(out.Results),
		RawOutput: out.RawOutput,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// NotFound answers every unrouted path or method.
func (s *Server) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

// decode reads a size-limited JSON body into dst. An empty body leaves dst
// zero-valued so field validation reports what is missing. Returns false
// after writing an error response.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
