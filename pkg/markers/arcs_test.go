package markers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_PreservesOrder(t *testing.T) {
	a := Marker{
		ID:          "a",
		Coordinates: Coordinates{Lat: 1, Lng: 2},
		Connections: []Connection{
			{ID: "c1", TargetCoordinates: Coordinates{Lat: 10, Lng: 20}, Order: 9, ArcAlt: 0.3, Color: "red"},
			{ID: "c2", TargetCoordinates: Coordinates{Lat: 11, Lng: 21}, Order: 1, ArcAlt: 0.1, Color: "blue"},
		},
	}
	b := Marker{
		ID:          "b",
		Coordinates: Coordinates{Lat: 3, Lng: 4},
		Connections: []Connection{
			{ID: "c3", TargetCoordinates: Coordinates{Lat: 12, Lng: 22}, Order: 5, ArcAlt: 0.2, Color: "green"},
		},
	}

	arcs := Flatten([]Marker{a, b})

	want := []Arc{
		{Order: 9, StartLat: 1, StartLng: 2, EndLat: 10, EndLng: 20, ArcAlt: 0.3, Color: "red"},
		{Order: 1, StartLat: 1, StartLng: 2, EndLat: 11, EndLng: 21, ArcAlt: 0.1, Color: "blue"},
		{Order: 5, StartLat: 3, StartLng: 4, EndLat: 12, EndLng: 22, ArcAlt: 0.2, Color: "green"},
	}
	assert.Equal(t, want, arcs)
}

func TestFlatten_UnresolvedTargets(t *testing.T) {
	// targets that name no marker still produce arcs
	arcs := Flatten(mixed())
	require.Len(t, arcs, 5)
	assert.Equal(t, -15.7939, arcs[3].StartLat)
	assert.Equal(t, 4, arcs[3].Order)
}

func TestFlatten_EmptyEncodesAsArray(t *testing.T) {
	arcs := Flatten(nil)
	require.NotNil(t, arcs)

	data, err := json.Marshal(arcs)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	arcs = Flatten([]Marker{{ID: "lonely"}})
	assert.Empty(t, arcs)
}

func TestArc_JSONShape(t *testing.T) {
	data, err := json.Marshal(Flatten(brazil()))
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"order": 1,
		"startLat": -23.5505, "startLng": -46.6333,
		"endLat": -22.9068, "endLng": -43.1729,
		"arcAlt": 0.1, "color": "#06b6d4"
	}]`, string(data))
}
