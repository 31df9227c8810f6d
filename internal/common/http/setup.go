package http

import (
	"net/http"

	"github.com/linkmark/backend/internal/common/constants"
	"github.com/linkmark/backend/internal/common/httpmetrics"
	"github.com/linkmark/backend/internal/common/logger"
)

// BuildBaseHandler wraps a handler in the standard middleware stack, outermost
// first: security headers, recovery, trace id, request size limit, metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(metrics.Wrap(handler)))))
}
