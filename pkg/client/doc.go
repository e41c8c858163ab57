// Package client loads the marker dataset on behalf of a renderer.
//
// A Controller drives a Source through Idle, Loading, Success and Error, and
// exposes the derived markers, arcs and statistics as an immutable Snapshot.
// Overlapping loads are resolved by sequence number: only the most recently
// started load may commit its outcome.
package client
