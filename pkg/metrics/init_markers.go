package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initMarkerMetrics() {
	r.MarkerQueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "globe_marker_queries_total",
			Help: "Marker queries by surface (rest, graphql) and outcome",
		},
		[]string{"surface", "status"},
	)

	r.MarkerQueryResults = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "globe_marker_query_results",
			Help:    "Number of markers returned per query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
		},
	)

	r.MarkersCreatedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "globe_markers_created_total",
			Help: "Accepted create-marker requests (not persisted)",
		},
	)

	r.DatasetMarkers = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "globe_dataset_markers",
			Help: "Markers in the loaded dataset",
		},
	)

	r.DatasetConnections = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "globe_dataset_connections",
			Help: "Connections in the loaded dataset",
		},
	)
}

func (r *Registry) initClientMetrics() {
	r.ClientLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "globe_client_loads_total",
			Help: "Committed client loads by outcome",
		},
		[]string{"outcome"},
	)

	r.ClientLoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "globe_client_load_duration_seconds",
			Help:    "Time from entering Loading to the committed outcome",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.ClientStaleResultsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "globe_client_stale_results_total",
			Help: "Fetch results discarded because a newer load superseded them",
		},
	)
}
