package middleware

import (
	"net/http"
)

var bodyTooLargeEnvelope = []byte(`{"success":false,"message":"Request body too large"}` + "\n")

// BodySizeLimit caps request bodies at maxBytes; a non-positive maxBytes
// disables the limit. A declared Content-Length over the cap is refused up
// front with 413; chunked bodies are cut off by http.MaxBytesReader and the
// handler sees *http.MaxBytesError.
func BodySizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write(bodyTooLargeEnvelope)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
