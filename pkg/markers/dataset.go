package markers

import (
	"fmt"

	"github.com/dd0wney/cluso-globe/pkg/validation"
)

// Dataset is the Graph Store: an immutable, validated marker set plus its
// metadata. It is built once and shared by concurrent readers without locking.
// Accessors hand out deep copies, so callers can never reach the stored slices.
type Dataset struct {
	markers  []Marker
	byID     map[string]int
	metadata Metadata
	stats    Statistics
	outside  []string
}

// NewDataset validates and copies ms into a new Dataset. Marker order is kept;
// it is the order Query and Flatten observe.
func NewDataset(ms []Marker, meta Metadata) (*Dataset, error) {
	d := &Dataset{
		markers:  cloneMarkers(ms),
		byID:     make(map[string]int, len(ms)),
		metadata: meta,
	}

	for i := range d.markers {
		m := &d.markers[i]
		if err := validation.ValidateStruct(m); err != nil {
			return nil, fmt.Errorf("marker %d (%q): %w", i, m.ID, err)
		}
		if _, dup := d.byID[m.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateMarker, m.ID)
		}
		d.byID[m.ID] = i

		if !m.Coordinates.InRange() {
			d.outside = append(d.outside, m.ID)
		}
		for _, c := range m.Connections {
			if !c.TargetCoordinates.InRange() {
				d.outside = append(d.outside, m.ID+"/"+c.ID)
			}
		}
	}

	d.stats = ComputeStatistics(d.markers)
	return d, nil
}

// NewDatasetFromPayload builds a Dataset from a decoded static document.
// Any statistics embedded in the document are ignored and recomputed.
func NewDatasetFromPayload(p *Payload) (*Dataset, error) {
	if p == nil || p.Data == nil {
		return nil, ErrEmptyPayload
	}
	return NewDataset(p.Data.Markers, p.Data.Metadata)
}

// Len returns the number of markers in the store.
func (d *Dataset) Len() int {
	return len(d.markers)
}

// Markers returns a copy of every marker in store order.
func (d *Dataset) Markers() []Marker {
	return cloneMarkers(d.markers)
}

// Marker returns a copy of the marker with the given id.
func (d *Dataset) Marker(id string) (Marker, error) {
	i, ok := d.byID[id]
	if !ok {
		return Marker{}, fmt.Errorf("%w: %q", ErrMarkerNotFound, id)
	}
	return cloneMarker(d.markers[i]), nil
}

// Metadata returns the passthrough metadata.
func (d *Dataset) Metadata() Metadata {
	return d.metadata
}

// Statistics returns the statistics of the whole store.
func (d *Dataset) Statistics() Statistics {
	return d.stats.clone()
}

// OutOfRange lists markers ("id") and connections ("id/connectionID") whose
// coordinates fall outside latitude/longitude bounds, in store order. Such
// entries are served unchanged.
func (d *Dataset) OutOfRange() []string {
	return append([]string(nil), d.outside...)
}

// Query runs the Query Engine over the store and returns copies of the matches.
func (d *Dataset) Query(f Filter) Result {
	res := Query(d.markers, f)
	res.Markers = cloneMarkers(res.Markers)
	return res
}

func cloneMarkers(ms []Marker) []Marker {
	out := make([]Marker, len(ms))
	for i := range ms {
		out[i] = cloneMarker(ms[i])
	}
	return out
}

func cloneMarker(m Marker) Marker {
	conns := make([]Connection, len(m.Connections))
	copy(conns, m.Connections)
	m.Connections = conns
	return m
}
