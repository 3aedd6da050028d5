package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chronicle-gateway/internal/metrics"
)

// RouterConfig holds the cross-cutting settings of the router.
type RouterConfig struct {
	AllowedOrigin string
	APIKeys       []string
	Logger        *zap.Logger
}

// NewRouter mounts the gateway endpoints behind the standard middleware chain.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Use(CORSMiddleware(cfg.AllowedOrigin, AuthEnabled(cfg.APIKeys)))
	r.Use(BearerAuthMiddleware(cfg.APIKeys))

	r.Get("/health", s.HealthCheck)
	r.Post("/convert", s.Convert)
	r.Post("/search", s.Search)
	r.Get("/metrics", s.Metrics)

	r.NotFound(s.NotFound)
	r.MethodNotAllowed(s.NotFound)

	return r
}
