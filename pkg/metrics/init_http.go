package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// latencyBuckets straddle the simulated 500ms list delay so slow upstreams
// and a misconfigured delay both show up.
var latencyBuckets = []float64{0.005, 0.025, 0.1, 0.25, 0.45, 0.5, 0.55, 0.75, 1, 2.5, 5}

// responseBuckets cover a single marker up to a full unfiltered list.
var responseBuckets = prometheus.ExponentialBuckets(128, 4, 7)

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)
	route := []string{"method", "path", "status"}

	r.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route pattern and status",
	}, route)

	r.HTTPRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP latency in seconds, including the simulated delay",
		Buckets:   latencyBuckets,
	}, route)

	r.HTTPRequestsInFlight = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served",
	})

	r.HTTPResponseSizeBytes = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response body size in bytes",
		Buckets:   responseBuckets,
	}, []string{"method", "path"})
}
