package api

import (
	"github.com/gin-gonic/gin"

	"github.com/persistorai/graphcrawl/internal/httputil"
	"github.com/persistorai/graphcrawl/internal/metrics"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternalError   = "internal_error"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeUpstreamError   = "upstream_error"
	ErrCodeUpstreamInvalid = "upstream_invalid"
	ErrCodeTimeout         = "timeout"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondNodeError is respondError for failures attributed to a graph node.
func respondNodeError(c *gin.Context, status int, code, message, node string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondErrorDetails(c, status, code, message, map[string]string{"node": node})
}
