package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dd0wney/cluso-globe/pkg/api/middleware"
	"github.com/dd0wney/cluso-globe/pkg/logging"
	"github.com/dd0wney/cluso-globe/pkg/markers"
)

// ErrNoDataset is returned by reads while the store is empty.
var ErrNoDataset = errors.New("no dataset loaded")

// simulateLatency waits for the configured delay. Each request waits on its
// own timer; a cancelled request returns early with the context error.
func (s *Server) simulateLatency(ctx context.Context) error {
	if s.cfg.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(s.cfg.Delay)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// query runs f against the current dataset. Engine panics become errors so
// they are answered with the failure envelope like any other read failure.
func (s *Server) query(f markers.Filter) (res markers.Result, meta markers.Metadata, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("query engine: %v", rec)
		}
	}()

	d := s.store.Dataset()
	if d == nil {
		return markers.Result{}, markers.Metadata{}, ErrNoDataset
	}
	return d.Query(f), d.Metadata(), nil
}

// handleListMarkers serves GET /api/markers?region=&type=&limit=
func (s *Server) handleListMarkers(w http.ResponseWriter, r *http.Request) {
	if err := s.simulateLatency(r.Context()); err != nil {
		s.logger.Debug("Client went away during simulated latency",
			logging.RequestID(middleware.GetRequestID(r)), logging.Error(err))
		return
	}

	f := markers.ParseFilter(r.URL.Query())
	res, meta, err := s.query(f)
	if err != nil {
		s.recordQuery("error", 0)
		s.respondError(w, r, http.StatusInternalServerError, MessageInternalError, err)
		return
	}
	s.recordQuery("success", len(res.Markers))
	s.logger.Debug("Markers queried",
		logging.Region(f.Region),
		logging.Count(len(res.Markers)),
		logging.RequestID(middleware.GetRequestID(r)))

	s.respondSuccess(w, MessageMarkersLoaded, markers.PayloadData{
		Markers:    res.Markers,
		Statistics: res.Statistics,
		Metadata:   meta,
	})
}

// handleGetMarker serves GET /api/markers/{id}
func (s *Server) handleGetMarker(w http.ResponseWriter, r *http.Request) {
	d := s.store.Dataset()
	if d == nil {
		s.respondError(w, r, http.StatusInternalServerError, MessageInternalError, ErrNoDataset)
		return
	}

	m, err := d.Marker(chi.URLParam(r, "id"))
	if errors.Is(err, markers.ErrMarkerNotFound) {
		s.respondError(w, r, http.StatusNotFound, MessageMarkerNotFound, err)
		return
	}
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, MessageInternalError, err)
		return
	}
	s.respondSuccess(w, MessageMarkerFound, m)
}

// handleCreateMarker serves POST /api/markers. Nothing is stored: the body's
// fields are echoed back under a fresh id, and a body "id" overrides it. Any
// parseable JSON is accepted; see spreadFields.
func (s *Server) handleCreateMarker(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, http.StatusRequestEntityTooLarge, MessageBodyTooLarge, err)
			return
		}
		s.respondError(w, r, http.StatusBadRequest, MessageBadRequest, err)
		return
	}
	fields, err := spreadFields(raw)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, MessageBadRequest, err)
		return
	}

	id := uuid.NewString()
	data := make(map[string]json.RawMessage, len(fields)+1)
	data["id"] = json.RawMessage(`"` + id + `"`)
	for k, v := range fields {
		data[k] = v
	}

	if s.metrics != nil {
		s.metrics.RecordMarkerCreated()
	}
	s.logger.Info("Marker create accepted without persistence",
		logging.MarkerID(id),
		logging.Int("fields", len(fields)),
		logging.RequestID(middleware.GetRequestID(r)))

	s.respondSuccess(w, MessageMarkerAdded, data)
}

// decodeBody reads exactly one JSON value of any kind from body. An empty
// body, a syntax error or trailing data is an error.
func decodeBody(body io.Reader) (json.RawMessage, error) {
	dec := json.NewDecoder(body)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("decode body: unexpected data after JSON value")
	}
	return raw, nil
}

// spreadFields turns a parsed body into the fields merged into the echo,
// the way an object spread treats it: object members as they are, array
// elements and string characters under their index, and nothing for null,
// numbers or booleans.
func spreadFields(raw json.RawMessage) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		return obj, nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		out := make(map[string]json.RawMessage, len(elems))
		for i, e := range elems {
			out[strconv.Itoa(i)] = e
		}
		return out, nil
	case '"':
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		out := make(map[string]json.RawMessage)
		i := 0
		for _, c := range str {
			enc, err := json.Marshal(string(c))
			if err != nil {
				return nil, err
			}
			out[strconv.Itoa(i)] = enc
			i++
		}
		return out, nil
	}
	return nil, nil
}
