package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSystemMetrics() {
	r.UptimeSeconds = promauto.With(r.registry).NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "globe_uptime_seconds",
			Help: "Time since the registry was created in seconds",
		},
		func() float64 { return time.Since(r.startTime).Seconds() },
	)

	r.registry.MustRegister(collectors.NewGoCollector())
}
