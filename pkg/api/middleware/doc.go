// Package middleware provides the HTTP middleware chain of the attack map
// API server.
//
//   - recovery.go: panic recovery
//   - logging.go: structured request logging
//   - cors.go: Cross-Origin Resource Sharing
//   - body_limit.go: request body size limiting for data uploads
//   - request_id.go: request ID generation and propagation
//   - metrics.go: Prometheus request metrics
//
// All middleware follows the standard pattern: func(http.Handler) http.Handler
//
//	handler := middleware.PanicRecovery(logger)(mux)
//	handler = middleware.Logging(logger, middleware.GetRequestID)(handler)
//	handler = middleware.RequestID()(handler)
package middleware
