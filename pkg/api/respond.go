package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dd0wney/cluso-globe/pkg/api/middleware"
	"github.com/dd0wney/cluso-globe/pkg/logging"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("Error encoding JSON response", logging.Error(err))
	}
}

func (s *Server) respondSuccess(w http.ResponseWriter, message string, data any) {
	s.respondJSON(w, http.StatusOK, Envelope{
		Success:   true,
		Message:   message,
		Timestamp: s.timestamp(),
		Data:      data,
	})
}

// respondError writes a failure envelope. err is exposed as the diagnostic
// error field outside production and is always logged for 5xx.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		fields := []logging.Field{logging.Path(r.URL.Path), logging.RequestID(middleware.GetRequestID(r))}
		if err != nil {
			fields = append(fields, logging.Error(err))
		}
		s.logger.Error(message, fields...)
	}
	s.writeError(w, status, message, err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string, err error) {
	env := Envelope{
		Success:   false,
		Message:   message,
		Timestamp: s.timestamp(),
	}
	if err != nil && s.cfg.Environment != EnvironmentProduction {
		env.Error = err.Error()
	}
	s.respondJSON(w, status, env)
}

// respondPanic answers a recovered panic; the recovery middleware has already logged it.
func (s *Server) respondPanic(w http.ResponseWriter, _ *http.Request, recovered any) {
	s.writeError(w, http.StatusInternalServerError, MessageInternalError, fmt.Errorf("panic: %v", recovered))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, http.StatusNotFound, MessageNotFound, nil)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, r, http.StatusMethodNotAllowed, MessageMethodNotAllowed, nil)
}
