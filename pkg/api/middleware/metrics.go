package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// MetricsRecorder receives one observation per served request.
type MetricsRecorder interface {
	RecordHTTPRequest(method, path, status string, duration time.Duration)
	RecordResponseSize(method, path string, size float64)
	IncHTTPRequestsInFlight()
	DecHTTPRequestsInFlight()
}

// PathLabeler maps a served request to its metrics path label. It runs after
// the handler so routers can report the matched pattern.
type PathLabeler func(r *http.Request) string

// Metrics observes latency, status and response size per route. A nil
// labeler falls back to the raw URL path, which is only safe for fixed routes.
func Metrics(recorder MetricsRecorder, labeler PathLabeler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder.IncHTTPRequestsInFlight()
			defer recorder.DecHTTPRequestsInFlight()

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(sw, r)
			elapsed := time.Since(start)

			label := r.URL.Path
			if labeler != nil {
				if l := labeler(r); l != "" {
					label = l
				}
			}
			recorder.RecordHTTPRequest(r.Method, label, strconv.Itoa(sw.statusCode), elapsed)
			recorder.RecordResponseSize(r.Method, label, float64(sw.bytesWritten))
		})
	}
}
