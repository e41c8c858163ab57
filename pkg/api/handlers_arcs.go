package api

import (
	"net/http"
	"strconv"

	"github.com/dd0wney/cluso-globe/pkg/globe"
	"github.com/dd0wney/cluso-globe/pkg/markers"
)

// handleListArcs serves GET /api/arcs with the same filters as /api/markers.
func (s *Server) handleListArcs(w http.ResponseWriter, r *http.Request) {
	res, _, err := s.query(markers.ParseFilter(r.URL.Query()))
	if err != nil {
		s.recordQuery("error", 0)
		s.respondError(w, r, http.StatusInternalServerError, MessageInternalError, err)
		return
	}
	s.recordQuery("success", len(res.Markers))

	s.respondSuccess(w, MessageArcsLoaded, ArcsData{
		Arcs:       markers.Flatten(res.Markers),
		Statistics: res.Statistics,
	})
}

// handleGlobe serves GET /api/globe: renderer config plus arcs for the filter.
// markers=true also attaches the filtered markers.
func (s *Server) handleGlobe(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, _, err := s.query(markers.ParseFilter(q))
	if err != nil {
		s.recordQuery("error", 0)
		s.respondError(w, r, http.StatusInternalServerError, MessageInternalError, err)
		return
	}
	s.recordQuery("success", len(res.Markers))

	withMarkers, _ := strconv.ParseBool(q.Get("markers"))
	s.respondSuccess(w, MessageSceneLoaded, globe.NewScene(s.cfg.Globe, res.Markers, withMarkers))
}
