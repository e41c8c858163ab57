package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-globe/pkg/globe"
	"github.com/dd0wney/cluso-globe/pkg/markers"
)

func TestListArcs(t *testing.T) {
	s, _ := setupTestServer(t, nil)

	rr, env := do(t, s.Handler(), http.MethodGet, "/api/arcs?region=southeast", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, MessageArcsLoaded, env.Message)

	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var data ArcsData
	require.NoError(t, json.Unmarshal(raw, &data))

	// sp, rj and bh carry 3 + 2 + 1 connections
	assert.Len(t, data.Arcs, 6)
	assert.Equal(t, 6, data.Statistics.TotalConnections)
	assert.Equal(t, 3, data.Statistics.TotalMarkers)
}

func TestListArcs_EmptyIsArray(t *testing.T) {
	s, _ := setupTestServer(t, nil)

	rr, _ := do(t, s.Handler(), http.MethodGet, "/api/arcs?type=nothing", "")
	assert.Contains(t, rr.Body.String(), `"arcs":[]`)
}

func TestGlobeScene(t *testing.T) {
	s, _ := setupTestServer(t, nil)

	_, env := do(t, s.Handler(), http.MethodGet, "/api/globe?region=asia", "")
	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var scene globe.Scene
	require.NoError(t, json.Unmarshal(raw, &scene))

	assert.Equal(t, globe.DefaultConfig(), scene.Config)
	assert.Len(t, scene.Arcs, 2)
	assert.Empty(t, scene.Markers)

	_, env = do(t, s.Handler(), http.MethodGet, "/api/globe?region=asia&markers=true", "")
	raw, err = json.Marshal(env.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &scene))
	ids := []string{}
	for _, m := range scene.Markers {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"sg", "hk"}, ids)
	assert.Equal(t, markers.Flatten(scene.Markers), scene.Arcs)
}
