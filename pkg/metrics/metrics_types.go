package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "globe"

// Registry owns the service's collectors. Each instance wraps its own
// prometheus.Registry, so a test or an embedded server never collides with
// another.
type Registry struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	MarkerQueriesTotal  *prometheus.CounterVec
	MarkerQueryResults  prometheus.Histogram
	MarkersCreatedTotal prometheus.Counter
	DatasetMarkers      prometheus.Gauge
	DatasetConnections  prometheus.Gauge

	ClientLoadsTotal        *prometheus.CounterVec
	ClientLoadDuration      prometheus.Histogram
	ClientStaleResultsTotal prometheus.Counter

	UptimeSeconds prometheus.GaugeFunc

	startTime time.Time
	registry  *prometheus.Registry
}

// NewRegistry builds a registry with the HTTP, marker, client and runtime
// collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
	}
	r.initHTTPMetrics()
	r.initMarkerMetrics()
	r.initClientMetrics()
	r.initSystemMetrics()
	return r
}

// Gatherer exposes the collected families, e.g. for testutil.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
