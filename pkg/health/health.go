package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status is a probe outcome, ordered from best to worst.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) severity() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	}
	return 2
}

// Check is the result of one probe.
type Check struct {
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Message     string         `json:"message,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	LastChecked time.Time      `json:"last_checked"`
	DurationMS  float64        `json:"duration_ms"`
}

// CheckFunc runs one probe.
type CheckFunc func() Check

// Response aggregates a probe set; the worst check decides Status.
type Response struct {
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
}

type probeSet int

const (
	generalProbes probeSet = iota
	readinessProbes
	livenessProbes
	probeSetCount
)

// HealthChecker holds the /health, /health/ready and /health/live probe
// sets. A probe may be registered in more than one set.
type HealthChecker struct {
	mu   sync.RWMutex
	sets [probeSetCount]map[string]CheckFunc
}

// NewHealthChecker returns a checker with no probes; an empty set is healthy.
func NewHealthChecker() *HealthChecker {
	hc := &HealthChecker{}
	for i := range hc.sets {
		hc.sets[i] = make(map[string]CheckFunc)
	}
	return hc
}

func (hc *HealthChecker) register(set probeSet, name string, fn CheckFunc) {
	hc.mu.Lock()
	hc.sets[set][name] = fn
	hc.mu.Unlock()
}

// RegisterCheck adds a probe to the /health report.
func (hc *HealthChecker) RegisterCheck(name string, fn CheckFunc) {
	hc.register(generalProbes, name, fn)
}

// RegisterReadinessCheck adds a probe that gates traffic.
func (hc *HealthChecker) RegisterReadinessCheck(name string, fn CheckFunc) {
	hc.register(readinessProbes, name, fn)
}

// RegisterLivenessCheck adds a probe whose failure means restart.
func (hc *HealthChecker) RegisterLivenessCheck(name string, fn CheckFunc) {
	hc.register(livenessProbes, name, fn)
}

func (hc *HealthChecker) Check() Response          { return hc.run(generalProbes) }
func (hc *HealthChecker) CheckReadiness() Response { return hc.run(readinessProbes) }
func (hc *HealthChecker) CheckLiveness() Response  { return hc.run(livenessProbes) }

func (hc *HealthChecker) run(set probeSet) Response {
	hc.mu.RLock()
	probes := make(map[string]CheckFunc, len(hc.sets[set]))
	for name, fn := range hc.sets[set] {
		probes[name] = fn
	}
	hc.mu.RUnlock()

	resp := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check, len(probes)),
	}
	for name, fn := range probes {
		start := time.Now()
		c := fn()
		c.LastChecked = start
		c.DurationMS = float64(time.Since(start).Microseconds()) / 1000
		if c.Name == "" {
			c.Name = name
		}
		resp.Checks[name] = c
		if c.Status.severity() > resp.Status.severity() {
			resp.Status = c.Status
		}
	}
	return resp
}

// HTTPHandler serves the /health report. Degraded still answers 200 so a
// near-full heap does not pull the instance out of rotation.
func (hc *HealthChecker) HTTPHandler() http.HandlerFunc {
	return respond(hc.Check, StatusDegraded)
}

// ReadinessHandler answers 200 only when every readiness probe is healthy.
func (hc *HealthChecker) ReadinessHandler() http.HandlerFunc {
	return respond(hc.CheckReadiness, StatusHealthy)
}

// LivenessHandler answers 200 only when every liveness probe is healthy.
func (hc *HealthChecker) LivenessHandler() http.HandlerFunc {
	return respond(hc.CheckLiveness, StatusHealthy)
}

// respond answers 503 when the aggregate is worse than tolerated.
func respond(run func() Response, tolerated Status) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := run()
		code := http.StatusOK
		if resp.Status.severity() > tolerated.severity() {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
