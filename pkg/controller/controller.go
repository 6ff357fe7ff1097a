// Package controller drives the visualizer: it owns the graph under edit, the
// execution engine and the named graph store, and exposes the page controls
// every front end shares (generate, load, save, start, pause/resume, stop,
// reset, step delay).
//
// Editing is locked while the engine is not Idle. Generate, Load and Reset
// first discard a finished run so the user never has to stop explicitly
// after the algorithm completes.
package controller

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kruskalviz/pkg/editor"
	"github.com/matzehuels/kruskalviz/pkg/engine"
	"github.com/matzehuels/kruskalviz/pkg/graph"
	"github.com/matzehuels/kruskalviz/pkg/layout"
	"github.com/matzehuels/kruskalviz/pkg/render"
	"github.com/matzehuels/kruskalviz/pkg/store"
)

// Option configures a Controller.
type Option func(*Controller)

// WithStore sets the named graph store. The default is a NullStore.
func WithStore(s store.Store) Option {
	return func(c *Controller) {
		if s != nil {
			c.store = s
		}
	}
}

// WithLogger sets the logger. It is also handed to the engine.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithGenerateOptions sets the defaults used by Generate.
func WithGenerateOptions(opts layout.Options) Option {
	return func(c *Controller) { c.genOpts = opts }
}

// WithEngineOptions passes options through to engine.New.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(c *Controller) { c.engineOpts = append(c.engineOpts, opts...) }
}

// Controller is safe for concurrent use.
type Controller struct {
	logger     *log.Logger
	store      store.Store
	genOpts    layout.Options
	engineOpts []engine.Option

	// mu serializes commands that check engine state and then act on it.
	mu     sync.Mutex
	editor *editor.Editor
	engine *engine.Engine
}

// New creates a controller editing g.
func New(g graph.Graph, opts ...Option) *Controller {
	c := &Controller{
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		store:   store.NewNullStore(),
		genOpts: layout.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.engine = engine.New(append([]engine.Option{engine.WithLogger(c.logger)}, c.engineOpts...)...)
	c.editor = editor.New(g, editor.WithLock(func() bool {
		return c.engine.State() != engine.Idle
	}))
	return c
}

// Editor returns the graph editor. Mutations fail with editor.ErrLocked
// while a run exists.
func (c *Controller) Editor() *editor.Editor { return c.editor }

// Engine returns the execution engine, mainly for Subscribe.
func (c *Controller) Engine() *engine.Engine { return c.engine }

// Store returns the named graph store.
func (c *Controller) Store() store.Store { return c.store }

// Graph returns a copy of the graph under edit.
func (c *Controller) Graph() graph.Graph { return c.editor.Graph() }

// Snapshot returns the engine's current snapshot.
func (c *Controller) Snapshot() engine.Snapshot { return c.engine.Snapshot() }

// GenerateOptions returns the defaults used by Generate.
func (c *Controller) GenerateOptions() layout.Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.genOpts
}

// =============================================================================
// Graph Commands
// =============================================================================

// Generate replaces the graph with a random connected one built from opts.
// Zero-valued fields fall back to the controller defaults.
func (c *Controller) Generate(opts layout.Options) (graph.Graph, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	opts = c.mergeGenerate(opts)
	g, err := layout.Generate(opts)
	if err != nil {
		return graph.Graph{}, err
	}
	if err := c.replaceLocked(g); err != nil {
		return graph.Graph{}, err
	}
	c.logger.Info("graph generated", "nodes", len(g.Nodes), "edges", len(g.Edges), "layout", opts.Layout)
	return g, nil
}

func (c *Controller) mergeGenerate(opts layout.Options) layout.Options {
	if opts.Nodes == 0 {
		opts.Nodes = c.genOpts.Nodes
	}
	if opts.ExtraEdges == 0 {
		opts.ExtraEdges = c.genOpts.ExtraEdges
	}
	if opts.Layout == "" {
		opts.Layout = c.genOpts.Layout
	}
	if opts.MaxWeight == 0 {
		opts.MaxWeight = c.genOpts.MaxWeight
	}
	if opts.Seed == 0 {
		opts.Seed = c.genOpts.Seed
	}
	return opts
}

// Load replaces the graph with a JSON document read from r.
func (c *Controller) Load(r io.Reader) error {
	g, err := graph.Read(r)
	if err != nil {
		return err
	}
	return c.Replace(g)
}

// LoadFile replaces the graph with a JSON or YAML file.
func (c *Controller) LoadFile(path string) error {
	g, err := graph.ReadFile(path)
	if err != nil {
		return err
	}
	if err := c.Replace(g); err != nil {
		return err
	}
	c.logger.Info("graph loaded", "path", path, "nodes", len(g.Nodes), "edges", len(g.Edges))
	return nil
}

// Replace swaps in g after validating it.
func (c *Controller) Replace(g graph.Graph) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.replaceLocked(g)
}

func (c *Controller) replaceLocked(g graph.Graph) error {
	if err := c.discardFinishedLocked(); err != nil {
		return err
	}
	return c.editor.Replace(g)
}

// Save writes the graph as JSON without display tags.
func (c *Controller) Save(w io.Writer) error {
	return graph.Write(c.editor.Graph(), w, graph.WriteOptions{Format: graph.FormatJSON})
}

// SaveFile writes the graph to path, choosing JSON or YAML by extension.
func (c *Controller) SaveFile(path string) error {
	if err := graph.WriteFile(c.editor.Graph(), path, graph.WriteOptions{}); err != nil {
		return err
	}
	c.logger.Info("graph saved", "path", path)
	return nil
}

// Clear removes every node and edge. It discards a finished run first.
func (c *Controller) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.discardFinishedLocked(); err != nil {
		return err
	}
	return c.editor.Clear()
}

// =============================================================================
// Run Commands
// =============================================================================

// Start begins a run over the current graph. It fails with
// engine.ErrEmptyGraph when there are no nodes and engine.ErrRunActive while
// a run is in progress. Cancelling ctx stops the run.
func (c *Controller) Start(ctx context.Context) (engine.RunHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Initialize(ctx, c.editor.Graph())
}

// TogglePause pauses a running run and resumes a paused one.
func (c *Controller) TogglePause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := c.engine.Handle()
	switch c.engine.State() {
	case engine.Running:
		return c.engine.Pause(h)
	case engine.Paused:
		return c.engine.Resume(h)
	default:
		return engine.ErrRunInactive
	}
}

// Pause suspends the current run.
func (c *Controller) Pause() error {
	return c.withHandle(c.engine.Pause)
}

// Resume continues the current run.
func (c *Controller) Resume() error {
	return c.withHandle(c.engine.Resume)
}

// Stop discards the current run and reverts all edge tags. Stopping with no
// run is a no-op.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLocked()
}

// Reset stops any run and reverts every edge tag in the graph under edit.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.stopLocked(); err != nil {
		return err
	}
	g := c.editor.Graph()
	g.ResetColors()
	return c.editor.Replace(g)
}

func (c *Controller) stopLocked() error {
	h := c.engine.Handle()
	if h == "" {
		return nil
	}
	return c.engine.Stop(h)
}

func (c *Controller) discardFinishedLocked() error {
	switch c.engine.State() {
	case engine.Running, engine.Paused:
		return engine.ErrRunActive
	case engine.Finished:
		return c.stopLocked()
	default:
		return nil
	}
}

func (c *Controller) withHandle(fn func(engine.RunHandle) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := c.engine.Handle()
	if h == "" {
		return engine.ErrRunInactive
	}
	return fn(h)
}

// SetStepDelay changes the delay for the next run.
func (c *Controller) SetStepDelay(d time.Duration) error {
	return c.engine.SetStepDelay(d)
}

// StepDelay returns the configured step delay.
func (c *Controller) StepDelay() time.Duration {
	return c.engine.StepDelay()
}

// =============================================================================
// Rendering
// =============================================================================

// Frame returns the render input for the current moment: the run's edges,
// tree and current edge while a run exists, the plain graph otherwise.
func (c *Controller) Frame() render.Frame {
	f, _ := c.View()
	return f
}

// View returns the frame together with the snapshot it was built from.
func (c *Controller) View() (render.Frame, engine.Snapshot) {
	g := c.editor.Graph()
	snap := c.engine.Snapshot()
	if snap.State == engine.Idle {
		return render.NewFrame(g, nil, nil, nil), snap
	}
	return render.NewFrame(g, snap.Edges, snap.Accepted, snap.Current), snap
}

// =============================================================================
// Named Graphs
// =============================================================================

// SaveNamed stores the graph under name.
func (c *Controller) SaveNamed(ctx context.Context, name string) error {
	if err := c.store.Save(ctx, name, c.editor.Graph()); err != nil {
		return err
	}
	c.logger.Info("graph stored", "name", name)
	return nil
}

// LoadNamed replaces the graph with the one stored under name.
func (c *Controller) LoadNamed(ctx context.Context, name string) error {
	g, err := c.store.Load(ctx, name)
	if err != nil {
		return err
	}
	return c.Replace(g)
}

// ListNamed returns the stored graph names.
func (c *Controller) ListNamed(ctx context.Context) ([]string, error) {
	return c.store.List(ctx)
}

// DeleteNamed removes a stored graph.
func (c *Controller) DeleteNamed(ctx context.Context, name string) error {
	return c.store.Delete(ctx, name)
}

// Close stops the engine and closes the store.
func (c *Controller) Close() error {
	c.engine.Close()
	return c.store.Close()
}
