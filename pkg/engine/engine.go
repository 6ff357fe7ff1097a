package engine

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/graph"
	"github.com/matzehuels/kruskalviz/pkg/observability"
)

// DefaultStepDelay is the pause between inspecting an edge and deciding it.
const DefaultStepDelay = 1500 * time.Millisecond

// Sentinel errors. All are *errors.Error values, so both errors.Is against the
// sentinel and errors.Is against the code work.
var (
	ErrEmptyGraph   = errors.New(errors.ErrCodeInvalidInput, "graph has no nodes")
	ErrRunActive    = errors.New(errors.ErrCodeRunActive, "a run is already active")
	ErrRunInactive  = errors.New(errors.ErrCodeRunInactive, "run is not active")
	ErrStaleHandle  = errors.New(errors.ErrCodeStaleRun, "handle does not refer to the current run")
	ErrClosed       = errors.New(errors.ErrCodeInternal, "engine closed")
	ErrInvalidDelay = errors.New(errors.ErrCodeInvalidInput, "step delay must be non-negative")
)

// Observer receives every snapshot in emission order.
type Observer func(Snapshot)

// Option configures an Engine.
type Option func(*Engine)

// WithStepDelay sets the initial step delay. Negative values are ignored.
func WithStepDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.stepDelay = d
		}
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver adds a snapshot callback. Observers run on the dispatcher
// goroutine, outside the engine lock. They may call any method except Close.
func WithObserver(fn Observer) Option {
	return func(e *Engine) {
		if fn != nil {
			e.observers = append(e.observers, fn)
		}
	}
}

// WithHooks overrides the globally registered observability hooks.
func WithHooks(h observability.EngineHooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// stopper is the part of *time.Timer the engine needs.
type stopper interface {
	Stop() bool
}

// Engine is the stepwise Kruskal executor. It is safe for concurrent use.
type Engine struct {
	logger    *log.Logger
	hooks     observability.EngineHooks
	observers []Observer
	afterFunc func(time.Duration, func()) stopper

	mu        sync.Mutex
	stepDelay time.Duration
	state     State
	run       *run
	token     uint64
	timer     stopper
	event     Event
	seq       uint64
	closed    bool
	queue     []Snapshot

	wake   chan struct{}
	quit   chan struct{}
	exited chan struct{}

	subMu      sync.RWMutex
	subs       map[*subscriber]struct{}
	subsClosed bool
}

// New creates an idle engine and starts its dispatcher. Call Close to release it.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		stepDelay: DefaultStepDelay,
		afterFunc: func(d time.Duration, f func()) stopper { return time.AfterFunc(d, f) },
		wake:      make(chan struct{}, 1),
		quit:      make(chan struct{}),
		exited:    make(chan struct{}),
		subs:      make(map[*subscriber]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	go e.dispatch()
	return e
}

// Initialize starts a run over g and begins stepping immediately. It is
// allowed from Idle or Finished. Cancelling ctx stops the run.
func (e *Engine) Initialize(ctx context.Context, g graph.Graph) (RunHandle, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(g.Nodes) == 0 {
		return "", ErrEmptyGraph
	}
	if err := g.Validate(); err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return "", ErrClosed
	}
	if e.state.Active() {
		return "", ErrRunActive
	}

	r := newRun(g)
	r.ctx = context.WithoutCancel(ctx)
	e.run = r
	e.state = Running

	e.logger.Info("run started", "run", r.handle, "nodes", len(g.Nodes), "edges", len(r.edges), "delay", e.stepDelay)
	e.engineHooks().OnRunStart(r.ctx, string(r.handle), len(g.Nodes), len(r.edges))
	e.emit(EventStarted)
	e.schedule(e.tick, 0)

	r.release = context.AfterFunc(ctx, func() { e.cancelRun(r) })
	return r.handle, nil
}

// Pause suspends the run. A decision that is waiting out its step delay is
// deferred until Resume. Pausing a paused run is a no-op.
func (e *Engine) Pause(h RunHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.lookup(h)
	if err != nil {
		return err
	}
	switch e.state {
	case Paused:
		return nil
	case Running:
	default:
		return ErrRunInactive
	}

	e.cancelPending()
	e.state = Paused
	e.logger.Debug("run paused", "run", r.handle, "cursor", r.cursor, "inspecting", r.inspecting)
	e.emit(EventPaused)
	return nil
}

// Resume continues a paused run from where it stopped. An edge that was under
// inspection is re-armed for a full step delay; otherwise the next edge is
// inspected immediately. Resuming a running run is a no-op.
func (e *Engine) Resume(h RunHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := e.lookup(h)
	if err != nil {
		return err
	}
	switch e.state {
	case Running:
		return nil
	case Paused:
	default:
		return ErrRunInactive
	}

	e.state = Running
	e.logger.Debug("run resumed", "run", r.handle, "cursor", r.cursor, "inspecting", r.inspecting)
	e.emit(EventResumed)
	if r.inspecting {
		e.schedule(e.decide, e.stepDelay)
	} else {
		e.schedule(e.tick, 0)
	}
	return nil
}

// Stop discards the run from any state and returns the engine to Idle. All
// edge tags revert to unprocessed. Stopping an already stopped run is a no-op.
func (e *Engine) Stop(h RunHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.lookup(h); err != nil {
		return err
	}
	if e.state != Idle {
		e.stopLocked()
	}
	return nil
}

// SetStepDelay changes the delay used by the next run. It is refused while a
// run is Running or Paused.
func (e *Engine) SetStepDelay(d time.Duration) error {
	if d < 0 {
		return ErrInvalidDelay
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Active() {
		return ErrRunActive
	}
	e.stepDelay = d
	return nil
}

// StepDelay returns the configured step delay.
func (e *Engine) StepDelay() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stepDelay
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Handle returns the most recent run's handle, or "" before the first run.
func (e *Engine) Handle() RunHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.run == nil {
		return ""
	}
	return e.run.handle
}

// Snapshot returns the current state without waiting for delivery.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot(e.event)
}

// Wait blocks until run h finishes or is stopped and returns its final
// snapshot.
func (e *Engine) Wait(ctx context.Context, h RunHandle) (Snapshot, error) {
	e.mu.Lock()
	r, err := e.lookup(h)
	e.mu.Unlock()
	if err != nil {
		return Snapshot{}, err
	}
	select {
	case <-r.done:
		return r.final, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Close stops any active run, delivers queued snapshots and closes every
// subscription channel. It is safe to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		<-e.exited
		return nil
	}
	if e.state.Active() {
		e.stopLocked()
	}
	e.cancelPending()
	e.closed = true
	e.mu.Unlock()

	close(e.quit)
	<-e.exited
	return nil
}

func (e *Engine) lookup(h RunHandle) (*run, error) {
	if e.run == nil || e.run.handle != h {
		return nil, ErrStaleHandle
	}
	return e.run, nil
}

func (e *Engine) engineHooks() observability.EngineHooks {
	if e.hooks != nil {
		return e.hooks
	}
	return observability.Engine()
}
