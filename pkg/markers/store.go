package markers

import "sync/atomic"

// Store holds the current Dataset. A reload swaps in a whole new Dataset, so
// readers always see one consistent snapshot.
type Store struct {
	current atomic.Pointer[Dataset]
}

// NewStore returns a Store serving d.
func NewStore(d *Dataset) *Store {
	s := &Store{}
	s.current.Store(d)
	return s
}

// Dataset returns the current snapshot, or nil before the first load.
func (s *Store) Dataset() *Dataset {
	return s.current.Load()
}

// Replace installs d and returns the previous snapshot.
func (s *Store) Replace(d *Dataset) *Dataset {
	return s.current.Swap(d)
}

// Size reports marker and connection counts, and whether a dataset is loaded.
func (s *Store) Size() (markers, connections int, loaded bool) {
	d := s.Dataset()
	if d == nil {
		return 0, 0, false
	}
	return d.stats.TotalMarkers, d.stats.TotalConnections, true
}
