package engine

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/kruskalviz/pkg/graph"
	"github.com/matzehuels/kruskalviz/pkg/unionfind"
)

// run is the state of one walk over the sorted edges. It is only touched with
// Engine.mu held.
type run struct {
	handle RunHandle
	ctx    context.Context

	edges      []graph.Edge // stable-sorted by weight
	index      map[int]int  // node id → disjoint-set index
	ds         *unionfind.DisjointSet
	cursor     int
	inspecting bool
	accepted   []graph.Edge
	log        []string
	started    time.Time

	done    chan struct{}
	final   Snapshot
	release func() bool
}

func newRun(g graph.Graph) *run {
	edges := slices.Clone(g.Edges)
	slices.SortStableFunc(edges, func(a, b graph.Edge) int {
		return cmp.Compare(a.Weight, b.Weight)
	})
	for i := range edges {
		edges[i].Color = graph.ColorUnprocessed
	}
	return &run{
		handle:  RunHandle(uuid.NewString()),
		edges:   edges,
		index:   g.NodeIndex(),
		ds:      unionfind.New(len(g.Nodes)),
		started: time.Now(),
		done:    make(chan struct{}),
	}
}

// schedule arms step to run after d. Any previously armed step is cancelled.
func (e *Engine) schedule(step func(), d time.Duration) {
	e.cancelPending()
	token := e.token
	e.timer = e.afterFunc(d, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if token != e.token || e.closed {
			return
		}
		e.timer = nil
		step()
	})
}

// cancelPending invalidates any armed continuation.
func (e *Engine) cancelPending() {
	e.token++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// tick inspects the edge at the cursor, or finishes the run.
func (e *Engine) tick() {
	if e.state != Running {
		return
	}
	r := e.run
	if r.cursor >= len(r.edges) {
		e.finish()
		return
	}
	r.inspecting = true
	e.emit(EventInspect)
	e.schedule(e.decide, e.stepDelay)
}

// decide runs the union for the inspected edge and advances the cursor.
func (e *Engine) decide() {
	r := e.run
	if e.state != Running || !r.inspecting {
		return
	}

	edge := r.edges[r.cursor]
	accepted := r.ds.Union(r.index[edge.From], r.index[edge.To])
	if accepted {
		r.accepted = append(r.accepted, edge)
		r.log = append(r.log, fmt.Sprintf("(%d,%d)", edge.From, edge.To))
		e.emit(EventAccepted)
	} else {
		r.edges[r.cursor].Color = graph.ColorExcluded
		e.emit(EventRejected)
	}
	e.logger.Debug("edge decided", "run", r.handle, "edge", edge.ID, "from", edge.From, "to", edge.To, "weight", edge.Weight, "accepted", accepted)
	e.engineHooks().OnEdgeDecision(r.ctx, string(r.handle), accepted)

	r.inspecting = false
	r.cursor++
	e.emit(EventAdvanced)
	e.schedule(e.tick, e.stepDelay)
}

func (e *Engine) finish() {
	r := e.run
	e.cancelPending()
	e.state = Finished
	r.inspecting = false
	r.final = e.emit(EventFinished)
	e.closeRun(r)

	weight := graph.TotalWeight(r.accepted)
	elapsed := time.Since(r.started)
	e.logger.Info("run finished", "run", r.handle, "accepted", len(r.accepted), "weight", weight, "elapsed", elapsed.Round(time.Millisecond))
	e.engineHooks().OnRunFinish(r.ctx, string(r.handle), len(r.accepted), weight, elapsed)
}

// stopLocked returns the engine to Idle and clears the run.
func (e *Engine) stopLocked() {
	r := e.run
	wasActive := e.state.Active()
	processed := r.cursor

	e.cancelPending()
	e.state = Idle
	r.cursor = 0
	r.inspecting = false
	r.accepted = nil
	r.log = nil
	r.ds = unionfind.New(r.ds.Len())
	for i := range r.edges {
		r.edges[i].Color = graph.ColorUnprocessed
	}
	snap := e.emit(EventStopped)

	if !wasActive {
		e.logger.Debug("finished run cleared", "run", r.handle)
		return
	}
	r.final = snap
	e.closeRun(r)
	e.logger.Info("run stopped", "run", r.handle, "processed", processed)
	e.engineHooks().OnRunStop(r.ctx, string(r.handle), processed)
}

// cancelRun stops r if it is still the active run. It backs context
// cancellation, which may race with the run finishing on its own.
func (e *Engine) cancelRun(r *run) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.run == r && e.state.Active() {
		e.logger.Debug("run context cancelled", "run", r.handle)
		e.stopLocked()
	}
}

func (e *Engine) closeRun(r *run) {
	close(r.done)
	if r.release != nil {
		r.release()
	}
}

// snapshot copies the run state. Callers hold e.mu.
func (e *Engine) snapshot(ev Event) Snapshot {
	s := Snapshot{
		Seq:      e.seq,
		State:    e.state,
		Event:    ev,
		Accepted: []graph.Edge{},
		Log:      []string{},
		Edges:    []graph.Edge{},
	}
	r := e.run
	if r == nil {
		return s
	}
	s.Handle = r.handle
	s.Accepted = append(s.Accepted, r.accepted...)
	s.Log = append(s.Log, r.log...)
	s.Edges = append(s.Edges, r.edges...)
	s.Cursor = r.cursor
	s.Total = len(r.edges)
	s.Finished = e.state == Finished
	s.TotalWeight = graph.TotalWeight(r.accepted)
	if r.inspecting {
		current := r.edges[r.cursor]
		s.Current = &current
	}
	return s
}
