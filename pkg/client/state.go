package client

import "github.com/dd0wney/cluso-globe/pkg/markers"

// State is the lifecycle position of a Controller.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent view of a Controller. Err is set only in
// StateError. Data from the last successful load is kept through later
// Loading and Error states; Statistics is nil until the first success.
type Snapshot struct {
	State      State
	Markers    []markers.Marker
	Arcs       []markers.Arc
	Statistics *markers.Statistics
	Err        string
}

// Loading reports whether a load is in flight.
func (s Snapshot) Loading() bool {
	return s.State == StateLoading
}

// Ready reports whether the last committed load succeeded.
func (s Snapshot) Ready() bool {
	return s.State == StateSuccess
}

// result is the transformed output of one successful fetch.
type result struct {
	markers    []markers.Marker
	arcs       []markers.Arc
	statistics markers.Statistics
}

// transform derives everything a renderer needs from a decoded payload.
// Statistics are recomputed from the received markers.
func transform(p *markers.Payload) result {
	ms := p.Data.Markers
	if ms == nil {
		ms = []markers.Marker{}
	}
	return result{
		markers:    ms,
		arcs:       markers.Flatten(ms),
		statistics: markers.ComputeStatistics(ms),
	}
}
