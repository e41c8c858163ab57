package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-globe/pkg/markers"
	"github.com/dd0wney/cluso-globe/pkg/markers/source"
)

// scriptedSource returns its responses in order, repeating the last one.
type scriptedSource struct {
	mu        sync.Mutex
	responses []func() (*markers.Payload, error)
	calls     int
}

func (s *scriptedSource) Fetch(ctx context.Context) (*markers.Payload, error) {
	s.mu.Lock()
	i := s.calls
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	s.calls++
	s.mu.Unlock()
	return s.responses[i]()
}

// gatedSource blocks each call until the test releases it with a result.
type gatedSource struct {
	started chan int
	gates   []chan gateResult
	mu      sync.Mutex
	n       int
}

type gateResult struct {
	payload *markers.Payload
	err     error
}

func newGatedSource(calls int) *gatedSource {
	g := &gatedSource{started: make(chan int, calls)}
	for i := 0; i < calls; i++ {
		g.gates = append(g.gates, make(chan gateResult, 1))
	}
	return g
}

func (g *gatedSource) Fetch(ctx context.Context) (*markers.Payload, error) {
	g.mu.Lock()
	i := g.n
	g.n++
	g.mu.Unlock()

	g.started <- i
	r := <-g.gates[i]
	return r.payload, r.err
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []string
	stale    int
}

func (f *fakeRecorder) RecordClientLoad(outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome)
}

func (f *fakeRecorder) RecordStaleClientResult() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stale++
}

func payloadOf(ms ...markers.Marker) *markers.Payload {
	return &markers.Payload{
		Success: true,
		Message: "ok",
		Data:    &markers.PayloadData{Markers: ms},
	}
}

func marker(id, region string, conns int) markers.Marker {
	m := markers.Marker{ID: id, Region: region, Type: markers.TypeCity, Coordinates: markers.Coordinates{Lat: 1, Lng: 2}}
	for i := 0; i < conns; i++ {
		m.Connections = append(m.Connections, markers.Connection{
			ID: id + "-c", Order: i + 1, TargetCoordinates: markers.Coordinates{Lat: 3, Lng: 4},
		})
	}
	return m
}

type stateLog struct {
	mu     sync.Mutex
	states []State
}

func (l *stateLog) observe(s Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, s.State)
}

func (l *stateLog) get() []State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]State(nil), l.states...)
}

func TestNewIsIdle(t *testing.T) {
	c := New(StaticSource{Document: source.EmbeddedDocument()})
	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.False(t, snap.Loading())
	assert.Nil(t, snap.Statistics)
	assert.Empty(t, snap.Err)
}

func TestLoadEmbeddedDocument(t *testing.T) {
	c := New(StaticSource{Document: source.EmbeddedDocument()})
	require.NoError(t, c.Load(context.Background()))

	snap := c.Snapshot()
	assert.True(t, snap.Ready())
	assert.False(t, snap.Loading())
	assert.Len(t, snap.Markers, 16)
	assert.Len(t, snap.Arcs, 19)
	require.NotNil(t, snap.Statistics)
	assert.Equal(t, 16, snap.Statistics.TotalMarkers)
	assert.Equal(t, 19, snap.Statistics.TotalConnections)
	assert.Equal(t, markers.Flatten(snap.Markers), snap.Arcs)
}

func TestErrorThenRefetchRecovers(t *testing.T) {
	src := &scriptedSource{responses: []func() (*markers.Payload, error){
		func() (*markers.Payload, error) { return nil, upstreamError(0, "request failed", errors.New("connection refused")) },
		func() (*markers.Payload, error) { return payloadOf(marker("a", "North", 2)), nil },
	}}
	log := &stateLog{}
	rec := &fakeRecorder{}
	c := New(src, WithObserver(log.observe), WithRecorder(rec))

	err := c.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)

	snap := c.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.False(t, snap.Loading())
	assert.Equal(t, "request failed: connection refused", snap.Err)

	require.NoError(t, c.Refetch(context.Background()))
	snap = c.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	assert.Empty(t, snap.Err)
	assert.Len(t, snap.Arcs, 2)

	assert.Equal(t, []State{StateLoading, StateError, StateLoading, StateSuccess}, log.get())
	assert.Equal(t, []string{"error", "success"}, rec.outcomes)
}

func TestLoadingClearsErrorAndKeepsData(t *testing.T) {
	g := newGatedSource(3)
	c := New(g)

	go func() { g.gates[0] <- gateResult{payload: payloadOf(marker("a", "North", 1))} }()
	require.NoError(t, c.Load(context.Background()))

	go func() { g.gates[1] <- gateResult{err: &FetchError{Kind: DomainFailure, Message: "dataset offline"}} }()
	require.Error(t, c.Load(context.Background()))
	snap := c.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "dataset offline", snap.Err)
	assert.Len(t, snap.Markers, 1, "prior data retained on error")

	done := make(chan error, 1)
	go func() { done <- c.Refetch(context.Background()) }()
	<-g.started
	<-g.started
	<-g.started

	snap = c.Snapshot()
	assert.True(t, snap.Loading())
	assert.Empty(t, snap.Err, "error cleared while loading")
	assert.Len(t, snap.Markers, 1)

	g.gates[2] <- gateResult{payload: payloadOf(marker("b", "South", 0), marker("c", "South", 0))}
	require.NoError(t, <-done)
	assert.Len(t, c.Snapshot().Markers, 2)
}

func TestStaleResultIsDiscarded(t *testing.T) {
	g := newGatedSource(2)
	rec := &fakeRecorder{}
	c := New(g, WithRecorder(rec))

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Load(context.Background()) }()
	require.Equal(t, 0, <-g.started)

	secondDone := make(chan error, 1)
	go func() { secondDone <- c.Refetch(context.Background()) }()
	require.Equal(t, 1, <-g.started)

	// The newer load resolves first.
	g.gates[1] <- gateResult{payload: payloadOf(marker("new", "Asia", 1))}
	require.NoError(t, <-secondDone)

	// The older load resolves late, with a failure, and must not win.
	g.gates[0] <- gateResult{err: upstreamError(503, "API error: 503", nil)}
	err := <-firstDone
	assert.True(t, IsSuperseded(err))

	snap := c.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	require.Len(t, snap.Markers, 1)
	assert.Equal(t, "new", snap.Markers[0].ID)
	assert.Equal(t, 1, rec.stale)
	assert.Equal(t, []string{"success"}, rec.outcomes)
}

func TestStaleSuccessDoesNotOverwriteNewerError(t *testing.T) {
	g := newGatedSource(2)
	c := New(g)

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Load(context.Background()) }()
	<-g.started
	secondDone := make(chan error, 1)
	go func() { secondDone <- c.Load(context.Background()) }()
	<-g.started

	g.gates[1] <- gateResult{err: parseError(errors.New("unexpected EOF"))}
	assert.ErrorIs(t, <-secondDone, ErrParse)

	g.gates[0] <- gateResult{payload: payloadOf(marker("old", "Europe", 0))}
	assert.ErrorIs(t, <-firstDone, ErrSuperseded)

	snap := c.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "invalid response body: unexpected EOF", snap.Err)
	assert.Empty(t, snap.Markers)
}

func TestConcurrentRefetchSettles(t *testing.T) {
	src := &scriptedSource{responses: []func() (*markers.Payload, error){
		func() (*markers.Payload, error) {
			time.Sleep(time.Millisecond)
			return payloadOf(marker("a", "North", 1)), nil
		},
	}}
	log := &stateLog{}
	c := New(src, WithObserver(log.observe))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := c.Refetch(context.Background())
			if err != nil {
				assert.ErrorIs(t, err, ErrSuperseded)
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	assert.False(t, snap.Loading())

	states := log.get()
	require.NotEmpty(t, states)
	assert.Equal(t, StateSuccess, states[len(states)-1])
}

func TestEmptyPayloadMarkers(t *testing.T) {
	c := New(&scriptedSource{responses: []func() (*markers.Payload, error){
		func() (*markers.Payload, error) { return payloadOf(), nil },
	}})
	require.NoError(t, c.Load(context.Background()))

	snap := c.Snapshot()
	assert.NotNil(t, snap.Markers)
	assert.NotNil(t, snap.Arcs)
	assert.Empty(t, snap.Arcs)
	assert.Equal(t, 0, snap.Statistics.TotalMarkers)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "unknown", State(42).String())
}
