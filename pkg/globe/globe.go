// Package globe describes what the globe renderer consumes: its configuration
// and the Scene handed to it. Rendering itself happens elsewhere.
package globe

import (
	"fmt"

	"github.com/dd0wney/cluso-globe/pkg/markers"
	"github.com/dd0wney/cluso-globe/pkg/validation"
)

// Position is the initial camera target.
type Position struct {
	Lat float64 `json:"lat" yaml:"lat" toml:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" yaml:"lng" toml:"lng" validate:"gte=-180,lte=180"`
}

// Config is the renderer configuration object. Colors are CSS color strings.
type Config struct {
	PointSize            float64  `json:"pointSize" yaml:"pointSize" toml:"pointSize" validate:"gt=0"`
	GlobeColor           string   `json:"globeColor" yaml:"globeColor" toml:"globeColor" validate:"required"`
	ShowAtmosphere       bool     `json:"showAtmosphere" yaml:"showAtmosphere" toml:"showAtmosphere"`
	AtmosphereColor      string   `json:"atmosphereColor" yaml:"atmosphereColor" toml:"atmosphereColor"`
	AtmosphereAltitude   float64  `json:"atmosphereAltitude" yaml:"atmosphereAltitude" toml:"atmosphereAltitude" validate:"gte=0"`
	Emissive             string   `json:"emissive" yaml:"emissive" toml:"emissive"`
	EmissiveIntensity    float64  `json:"emissiveIntensity" yaml:"emissiveIntensity" toml:"emissiveIntensity" validate:"gte=0"`
	Shininess            float64  `json:"shininess" yaml:"shininess" toml:"shininess" validate:"gte=0"`
	PolygonColor         string   `json:"polygonColor" yaml:"polygonColor" toml:"polygonColor"`
	AmbientLight         string   `json:"ambientLight" yaml:"ambientLight" toml:"ambientLight"`
	DirectionalLeftLight string   `json:"directionalLeftLight" yaml:"directionalLeftLight" toml:"directionalLeftLight"`
	DirectionalTopLight  string   `json:"directionalTopLight" yaml:"directionalTopLight" toml:"directionalTopLight"`
	PointLight           string   `json:"pointLight" yaml:"pointLight" toml:"pointLight"`
	ArcTime              int      `json:"arcTime" yaml:"arcTime" toml:"arcTime" validate:"gte=0"`
	ArcLength            float64  `json:"arcLength" yaml:"arcLength" toml:"arcLength" validate:"gte=0,lte=1"`
	Rings                int      `json:"rings" yaml:"rings" toml:"rings" validate:"gte=0"`
	MaxRings             int      `json:"maxRings" yaml:"maxRings" toml:"maxRings" validate:"gtefield=Rings"`
	InitialPosition      Position `json:"initialPosition" yaml:"initialPosition" toml:"initialPosition"`
	AutoRotate           bool     `json:"autoRotate" yaml:"autoRotate" toml:"autoRotate"`
	AutoRotateSpeed      float64  `json:"autoRotateSpeed" yaml:"autoRotateSpeed" toml:"autoRotateSpeed"`
}

// DefaultConfig returns the stock purple globe centred on Hong Kong.
func DefaultConfig() Config {
	return Config{
		PointSize:            0.8,
		GlobeColor:           "#2B0957",
		ShowAtmosphere:       true,
		AtmosphereColor:      "#A25CFA",
		AtmosphereAltitude:   0.15,
		Emissive:             "#2B0957",
		EmissiveIntensity:    0.2,
		Shininess:            0.9,
		PolygonColor:         "#FFF",
		AmbientLight:         "#F8F9FE",
		DirectionalLeftLight: "#B89EFF",
		DirectionalTopLight:  "#A25CFA",
		PointLight:           "#A6FA45",
		ArcTime:              1000,
		ArcLength:            0.9,
		Rings:                1,
		MaxRings:             3,
		InitialPosition:      Position{Lat: 22.3193, Lng: 114.1694},
		AutoRotate:           true,
		AutoRotateSpeed:      0.5,
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("globe config: %w", err)
	}
	return nil
}

// Scene is everything the renderer needs for one frame of data.
type Scene struct {
	Config  Config           `json:"config"`
	Arcs    []markers.Arc    `json:"arcs"`
	Markers []markers.Marker `json:"markers,omitempty"`
}

// NewScene flattens ms into arcs. Markers are attached only when withMarkers
// is set, since the renderer needs just the arcs.
func NewScene(cfg Config, ms []markers.Marker, withMarkers bool) Scene {
	s := Scene{Config: cfg, Arcs: markers.Flatten(ms)}
	if withMarkers {
		s.Markers = ms
	}
	return s
}
