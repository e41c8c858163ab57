package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dd0wney/cluso-globe/pkg/logging"
)

// PanicResponder writes the response for a recovered panic.
type PanicResponder func(w http.ResponseWriter, r *http.Request, recovered any)

// PanicRecovery creates middleware that recovers from panics in HTTP handlers.
// The panic and its stack are logged; respond writes the client response and
// defaults to a bare JSON failure envelope with no internal details.
func PanicRecovery(logger logging.Logger, respond PanicResponder) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if respond == nil {
		respond = defaultPanicResponse
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("Panic in HTTP handler",
						logging.String("method", r.Method),
						logging.Path(r.URL.Path),
						logging.RequestID(GetRequestID(r)),
						logging.String("panic", fmt.Sprint(rec)),
						logging.String("stack", string(debug.Stack())),
					)
					respond(w, r, rec)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func defaultPanicResponse(w http.ResponseWriter, r *http.Request, _ any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   false,
		"message":   "Internal server error",
		"timestamp": time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}
