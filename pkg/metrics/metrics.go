package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize records the size of an HTTP response body
func (r *Registry) RecordResponseSize(method, path string, size float64) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(size)
}

func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// RecordMarkerQuery records one query served on surface ("rest", "graphql").
func (r *Registry) RecordMarkerQuery(surface, status string, results int) {
	r.MarkerQueriesTotal.WithLabelValues(surface, status).Inc()
	if status == "success" {
		r.MarkerQueryResults.Observe(float64(results))
	}
}

// RecordMarkerCreated counts an accepted create request.
func (r *Registry) RecordMarkerCreated() {
	r.MarkersCreatedTotal.Inc()
}

// SetDatasetSize publishes the size of the loaded dataset.
func (r *Registry) SetDatasetSize(markers, connections int) {
	r.DatasetMarkers.Set(float64(markers))
	r.DatasetConnections.Set(float64(connections))
}

// RecordClientLoad records a committed client load ("success" or "error").
func (r *Registry) RecordClientLoad(outcome string, duration time.Duration) {
	r.ClientLoadsTotal.WithLabelValues(outcome).Inc()
	r.ClientLoadDuration.Observe(duration.Seconds())
}

// RecordStaleClientResult counts a discarded out-of-order fetch result.
func (r *Registry) RecordStaleClientResult() {
	r.ClientStaleResultsTotal.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
