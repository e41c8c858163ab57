package markers

// MarkerType is the closed set of marker kinds.
type MarkerType string

const (
	TypeCapital   MarkerType = "capital"
	TypeCity      MarkerType = "city"
	TypeCityState MarkerType = "city-state"
	TypeOther     MarkerType = "other"
)

// MarkerTypes lists every valid MarkerType in display order.
var MarkerTypes = []MarkerType{TypeCapital, TypeCity, TypeCityState, TypeOther}

// Valid reports whether t belongs to the enumeration.
func (t MarkerType) Valid() bool {
	switch t {
	case TypeCapital, TypeCity, TypeCityState, TypeOther:
		return true
	}
	return false
}

// Coordinates are degrees, carried as opaque numbers. Values outside the
// valid ranges are kept and reported by Dataset.OutOfRange.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// InRange reports whether c lies within [-90, 90] x [-180, 180].
func (c Coordinates) InRange() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Connection is an outbound edge owned by exactly one Marker. Target is a label
// and need not resolve to another marker in the dataset.
type Connection struct {
	ID                string      `json:"id" yaml:"id" validate:"required"`
	Target            string      `json:"target" yaml:"target"`
	TargetCoordinates Coordinates `json:"targetCoordinates" yaml:"targetCoordinates"`
	ArcAlt            float64     `json:"arcAlt" yaml:"arcAlt" validate:"gte=0"`
	Color             string      `json:"color" yaml:"color"`
	Order             int         `json:"order" yaml:"order"`
	Description       string      `json:"description" yaml:"description"`
}

// Marker is a node of the graph.
type Marker struct {
	ID          string       `json:"id" yaml:"id" validate:"required"`
	Name        string       `json:"name" yaml:"name"`
	Country     string       `json:"country" yaml:"country"`
	Region      string       `json:"region" yaml:"region"`
	Coordinates Coordinates  `json:"coordinates" yaml:"coordinates"`
	Type        MarkerType   `json:"type" yaml:"type" validate:"oneof=capital city city-state other"`
	Population  int64        `json:"population" yaml:"population" validate:"gte=0"`
	Connections []Connection `json:"connections" yaml:"connections" validate:"dive"`
}

// Statistics are derived from a marker subset and never stored.
type Statistics struct {
	TotalMarkers     int            `json:"totalMarkers"`
	TotalConnections int            `json:"totalConnections"`
	Regions          map[string]int `json:"regions"`
	Types            map[string]int `json:"types"`
}

// Metadata is descriptive passthrough information about the dataset.
type Metadata struct {
	Version     string `json:"version" yaml:"version"`
	LastUpdated string `json:"lastUpdated" yaml:"lastUpdated"`
	Source      string `json:"source" yaml:"source"`
	Description string `json:"description" yaml:"description"`
}

// Arc is the flattened form of one Connection, as consumed by the globe renderer.
type Arc struct {
	Order    int     `json:"order"`
	StartLat float64 `json:"startLat"`
	StartLng float64 `json:"startLng"`
	EndLat   float64 `json:"endLat"`
	EndLng   float64 `json:"endLng"`
	ArcAlt   float64 `json:"arcAlt"`
	Color    string  `json:"color"`
}

// PayloadData is the data section of the read envelope and of the static dataset document.
type PayloadData struct {
	Markers    []Marker   `json:"markers" yaml:"markers"`
	Statistics Statistics `json:"statistics" yaml:"-"`
	Metadata   Metadata   `json:"metadata" yaml:"metadata"`
}

// Payload is the wire envelope returned by GET /api/markers. The static dataset
// document has the same shape, so one decoder serves both.
type Payload struct {
	Success   bool         `json:"success" yaml:"success"`
	Message   string       `json:"message" yaml:"message"`
	Timestamp string       `json:"timestamp" yaml:"timestamp"`
	Data      *PayloadData `json:"data,omitempty" yaml:"data,omitempty"`
	Error     string       `json:"error,omitempty" yaml:"-"`
}
