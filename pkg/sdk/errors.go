package chronicle

import "github.com/kailas-cloud/chronicle-gateway/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation      = domain.ErrValidation
	ErrToolFailed      = domain.ErrToolFailed
	ErrToolUnavailable = domain.ErrToolUnavailable
	ErrToolTimeout     = domain.ErrToolTimeout
	ErrOutputRead      = domain.ErrOutputRead
)

// ToolFailureError carries the stderr and exit code of a failed tool run.
// Use errors.As() to extract it.
type ToolFailureError = domain.ToolFailureError
