package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// ContextKey namespaces values this package stores on request contexts.
type ContextKey string

// RequestIDContextKey holds the request id on the request context.
const RequestIDContextKey ContextKey = "request_id"

// RequestIDHeader carries the id in both directions.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 64

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(RequestIDContextKey).(string)
	return id
}

func requestIDRune(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return c == '-' || c == '_' || c == '.'
}

// sanitizeRequestID drops every byte outside [A-Za-z0-9._-] from the first
// maxRequestIDLength bytes, so ids are safe to echo and log.
func sanitizeRequestID(id string) string {
	if len(id) > maxRequestIDLength {
		id = id[:maxRequestIDLength]
	}
	buf := make([]byte, 0, len(id))
	for i := 0; i < len(id); i++ {
		if requestIDRune(id[i]) {
			buf = append(buf, id[i])
		}
	}
	return string(buf)
}

// RequestID tags each request with an id. A usable client X-Request-ID is
// kept so a browser trace can be followed into the server logs; otherwise a
// UUID is issued. The id is echoed on the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sanitizeRequestID(r.Header.Get(RequestIDHeader))
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), RequestIDContextKey, id)))
		})
	}
}
