package cli

import (
	"context"
	"io"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-globe/pkg/client"
	"github.com/dd0wney/cluso-globe/pkg/markers/source"
	"github.com/dd0wney/cluso-globe/pkg/metrics"
)

func loadedModel(t *testing.T, src client.Source) (watchModel, *client.Controller) {
	t.Helper()
	ctrl := client.New(src)
	m := newWatchModel(context.Background(), ctrl, 0)

	done, ok := m.load()().(loadDoneMsg)
	require.True(t, ok)

	updated, _ := m.Update(snapshotMsg(ctrl.Snapshot()))
	updated, _ = updated.Update(done)
	return updated.(watchModel), ctrl
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestWatchModelShowsMarkers(t *testing.T) {
	m, _ := loadedModel(t, client.StaticSource{Document: source.EmbeddedDocument(), Format: source.FormatJSON})

	assert.Equal(t, client.StateSuccess, m.snap.State)
	assert.NoError(t, m.lastErr)
	assert.Len(t, m.table.Rows(), 16)

	view := m.View()
	assert.Contains(t, view, "16 markers")
	assert.Contains(t, view, "connections 19")
	assert.Contains(t, view, "refetch")
}

func TestWatchModelShowsError(t *testing.T) {
	m, _ := loadedModel(t, client.StaticSource{Document: []byte(`{"success":false,"message":"maintenance"}`), Format: source.FormatJSON})

	assert.Equal(t, client.StateError, m.snap.State)
	assert.ErrorIs(t, m.lastErr, client.ErrDomain)
	assert.Contains(t, m.View(), "error: maintenance")
}

func TestWatchModelKeepsLastFailureDuringRefetch(t *testing.T) {
	m, _ := loadedModel(t, client.StaticSource{Document: []byte(`{"success":false,"message":"maintenance"}`), Format: source.FormatJSON})
	assert.NotContains(t, m.View(), "last load failed")

	updated, _ := m.Update(snapshotMsg(client.Snapshot{State: client.StateLoading}))
	view := updated.(watchModel).View()
	assert.Contains(t, view, "loading")
	assert.Contains(t, view, "last load failed")
	assert.Contains(t, view, "maintenance")

	updated, _ = updated.Update(loadDoneMsg{})
	assert.NotContains(t, updated.(watchModel).View(), "last load failed")
}

func TestWatchModelKeys(t *testing.T) {
	m := newWatchModel(context.Background(), client.New(client.StaticSource{Document: source.EmbeddedDocument(), Format: source.FormatJSON}), 0)

	_, cmd := m.Update(runeKey('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(runeKey('r'))
	require.NotNil(t, cmd)
	assert.IsType(t, loadDoneMsg{}, cmd())
}

func TestWatchModelIgnoresSupersededLoads(t *testing.T) {
	m, _ := loadedModel(t, client.StaticSource{Document: source.EmbeddedDocument(), Format: source.FormatJSON})

	updated, _ := m.Update(loadDoneMsg{err: client.ErrSuperseded})
	assert.NoError(t, updated.(watchModel).lastErr)
}

func TestWatchTickDisabled(t *testing.T) {
	m := newWatchModel(context.Background(), client.New(client.StaticSource{}), 0)
	assert.Nil(t, m.tick())
}

func TestWatchMetricsEndpoint(t *testing.T) {
	reg := metrics.NewRegistry()
	addr, stop, err := serveMetrics("127.0.0.1:0", reg)
	require.NoError(t, err)
	defer stop()

	ctrl := client.New(client.StaticSource{Document: source.EmbeddedDocument(), Format: source.FormatJSON},
		client.WithRecorder(reg))
	require.NoError(t, ctrl.Load(context.Background()))

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `globe_client_loads_total{outcome="success"} 1`)
}
