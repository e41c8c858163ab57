// Package markers models the marker graph shown on the globe: markers (cities and
// regions) and the directed connections they own.
//
// The package has three parts:
//
//   - Dataset, the immutable Graph Store built once per process
//   - Query, a pure filter over a marker slice that recomputes Statistics
//   - Flatten, which turns markers into the Arc records the renderer consumes
//
// Filtering always happens at marker granularity. A connection is never filtered
// on its own, and statistics are always derived from exactly the markers returned.
package markers
