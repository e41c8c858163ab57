package markers

import "errors"

var (
	// ErrMarkerNotFound is returned when an id does not resolve to a marker.
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrDuplicateMarker is returned when a dataset contains two markers with one id.
	ErrDuplicateMarker = errors.New("duplicate marker id")
	// ErrEmptyPayload is returned when a document has no data section.
	ErrEmptyPayload = errors.New("payload has no data section")
)
