package chi

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chronicle-gateway/internal/domain"
	logpkg "github.com/kailas-cloud/chronicle-gateway/internal/logger"
)

// operation names the client-facing messages of one tool-backed endpoint.
type operation struct {
	name    string // "Conversion", "Search"
	missing string // 400 message for missing fields
}

var (
	convertOp = operation{name: "Conversion", missing: "Missing content or filename"}
	searchOp  = operation{name: "Search", missing: "Missing searchTerm or jsonData"}
)

const outputFailureMessage = "Failed to read or parse output JSON"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, op operation) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		validationHandler,
		toolFailureHandler,
		outputReadHandler,
		sentinelHandler(domain.ErrToolTimeout, http.StatusGatewayTimeout, "%s timed out"),
		sentinelHandler(domain.ErrToolUnavailable, http.StatusServiceUnavailable, "%s tool unavailable"),
	}
}

func validationHandler(w http.ResponseWriter, err error, op operation) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	writeError(w, http.StatusBadRequest, op.missing)
	return true
}

func toolFailureHandler(w http.ResponseWriter, err error, op operation) bool {
	var tfe *domain.ToolFailureError
	if !errors.As(err, &tfe) {
		return false
	}
	writeJSON(w, http.StatusInternalServerError, toolFailureResponse{
		Success: false,
		Error:   op.name + " failed",
		Stderr:  tfe.Stderr,
		Code:    tfe.Code,
	})
	return true
}

func outputReadHandler(w http.ResponseWriter, err error, _ operation) bool {
	var ore *domain.OutputReadError
	if !errors.As(err, &ore) {
		return false
	}
	writeJSON(w, http.StatusInternalServerError, outputFailureResponse{
		Success: false,
		Error:   outputFailureMessage,
		Details: ore.Details(),
	})
	return true
}

// sentinelHandler maps a sentinel to a status and a failure message; format gets the operation name.
func sentinelHandler(sentinel error, status int, format string) errorHandler {
	return func(w http.ResponseWriter, err error, op operation) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeJSON(w, status, failureResponse{Success: false, Error: fmt.Sprintf(format, op.name)})
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error, op operation) {
	log := logpkg.FromContext(r.Context(), s.logger)
	if errors.Is(err, domain.ErrValidation) {
		log.Debug("request rejected", zap.String("operation", op.name), zap.Error(err))
	} else {
		log.Warn("domain error", zap.String("operation", op.name), zap.Error(err))
	}

	for _, h := range s.errorHandlers {
		if h(w, err, op) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
