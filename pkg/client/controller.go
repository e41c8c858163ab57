package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dd0wney/cluso-globe/pkg/logging"
)

// LoadRecorder receives load outcomes. *metrics.Registry implements it.
type LoadRecorder interface {
	RecordClientLoad(outcome string, duration time.Duration)
	RecordStaleClientResult()
}

// Observer is called after every committed transition, in commit order.
// It must not call Load or Refetch synchronously.
type Observer func(Snapshot)

// Controller owns the load lifecycle of one Source.
type Controller struct {
	src      Source
	logger   logging.Logger
	recorder LoadRecorder
	observer Observer

	// seq identifies the most recently started load.
	seq atomic.Uint64

	// commitMu orders state changes with their observer calls; mu guards snap.
	commitMu sync.Mutex
	mu       sync.RWMutex
	snap     Snapshot
}

// Option customizes a Controller.
type Option func(*Controller)

func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func WithRecorder(r LoadRecorder) Option {
	return func(c *Controller) { c.recorder = r }
}

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// New returns an Idle controller. Nothing is fetched until Load.
func New(src Source, opts ...Option) *Controller {
	c := &Controller{
		src:    src,
		logger: logging.NewNopLogger(),
		snap:   Snapshot{State: StateIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logging.Component("client"))
	return c
}

// Snapshot returns the current view. The slices are shared with the
// controller and must be treated as read-only.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Load fetches once and commits the outcome unless a newer load has started
// meanwhile, in which case ErrSuperseded is returned and nothing changes.
// A failed fetch returns its *FetchError after committing StateError.
func (c *Controller) Load(ctx context.Context) error {
	seq := c.seq.Add(1)
	start := time.Now()

	c.commit(func(s *Snapshot) bool {
		// Only the newest load may flip back to Loading.
		if seq != c.seq.Load() {
			return false
		}
		s.State = StateLoading
		s.Err = ""
		return true
	})
	c.logger.Debug("Load started", logging.Seq(seq))

	payload, err := c.src.Fetch(ctx)

	committed := c.commit(func(s *Snapshot) bool {
		if seq != c.seq.Load() {
			return false
		}
		if err != nil {
			s.State = StateError
			s.Err = describe(err)
			return true
		}
		res := transform(payload)
		stats := res.statistics
		*s = Snapshot{
			State:      StateSuccess,
			Markers:    res.markers,
			Arcs:       res.arcs,
			Statistics: &stats,
		}
		return true
	})

	if !committed {
		c.logger.Debug("Discarded stale load result", logging.Seq(seq), logging.Latency(time.Since(start)))
		if c.recorder != nil {
			c.recorder.RecordStaleClientResult()
		}
		return ErrSuperseded
	}

	if c.recorder != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		c.recorder.RecordClientLoad(outcome, time.Since(start))
	}

	if err != nil {
		c.logger.Warn("Load failed", logging.Seq(seq), logging.Error(err), logging.State(StateError.String()))
		return err
	}
	c.logger.Info("Load succeeded",
		logging.Seq(seq),
		logging.Count(len(payload.Data.Markers)),
		logging.Latency(time.Since(start)))
	return nil
}

// Refetch starts a fresh load; it may be called at any time, including while
// another load is in flight. The earlier load's result is then discarded.
func (c *Controller) Refetch(ctx context.Context) error {
	return c.Load(ctx)
}

// commit applies mutate under lock and notifies the observer when it reports
// a change.
func (c *Controller) commit(mutate func(*Snapshot) bool) bool {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	c.mu.Lock()
	next := c.snap
	changed := mutate(&next)
	if changed {
		c.snap = next
	}
	c.mu.Unlock()

	if changed && c.observer != nil {
		c.observer(next)
	}
	return changed
}

// IsSuperseded reports whether err means the load lost to a newer one.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
