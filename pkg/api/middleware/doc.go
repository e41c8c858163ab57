// Package middleware provides HTTP middleware for the marker API server.
//
// Each concern lives in its own file:
//
//   - recovery.go: panic recovery, answered with the JSON failure envelope
//   - request_id.go: X-Request-ID propagation
//   - logging.go: structured request logging
//   - cors.go: Cross-Origin Resource Sharing
//   - security_headers.go: response hardening headers
//   - body_limit.go: request body size limiting
//   - metrics.go: HTTP metrics collection
//
// All middleware follows the standard pattern: func(http.Handler) http.Handler
//
//	handler := middleware.PanicRecovery(logger, nil)(router)
//	handler = middleware.Logging(logger)(handler)
//	handler = middleware.RequestID()(handler)
package middleware
