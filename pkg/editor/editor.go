// Package editor implements interactive graph mutations: placing and dragging
// nodes, connecting and removing edges.
//
// An [Editor] owns a [graph.Graph] and guards it with a lock predicate so the
// graph cannot change under a running algorithm:
//
//	ed := editor.New(g, editor.WithLock(func() bool { return eng.State() != engine.Idle }))
//	n, ok, err := ed.AddNode(120, 80)
//
// Input guards that a pointer-driven UI hits routinely (placing a node on top
// of another, connecting an already-connected pair) are not errors: the call
// reports ok=false and leaves the graph unchanged.
package editor

import (
	"math"
	"sync"

	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/graph"
)

// Hit-test radii in canvas units.
const (
	PickRadius     = 20.0
	EdgePickRadius = 15.0
	MinWeight      = 1.0
)

// ErrLocked is returned by every mutation while the lock predicate reports true.
var ErrLocked = errors.New(errors.ErrCodeEditorLocked, "graph editing is disabled while a run is active")

// Option configures an Editor.
type Option func(*Editor)

// WithLock installs a predicate consulted before every mutation.
func WithLock(locked func() bool) Option {
	return func(e *Editor) { e.locked = locked }
}

// Editor is a mutex-guarded graph under edit. It is safe for concurrent use.
type Editor struct {
	mu     sync.Mutex
	g      graph.Graph
	locked func() bool
}

// New creates an editor over a copy of g.
func New(g graph.Graph, opts ...Option) *Editor {
	e := &Editor{g: g.Clone(), locked: func() bool { return false }}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns a copy of the current graph.
func (e *Editor) Graph() graph.Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.g.Clone()
}

// Locked reports whether mutations are currently refused.
func (e *Editor) Locked() bool {
	return e.locked()
}

// AddNode places a node at (x, y). It returns ok=false without changing the
// graph when the point is within PickRadius of an existing node.
func (e *Editor) AddNode(x, y float64) (graph.Node, bool, error) {
	if err := checkCoords(x, y); err != nil {
		return graph.Node{}, false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.locked() {
		return graph.Node{}, false, ErrLocked
	}
	if _, hit := e.nodeAt(x, y); hit {
		return graph.Node{}, false, nil
	}
	n := graph.Node{ID: nextNodeID(e.g.Nodes), X: x, Y: y}
	e.g.Nodes = append(e.g.Nodes, n)
	return n, true, nil
}

// AddEdge connects two existing nodes. Self-loops and pairs that are already
// connected in either direction return ok=false. Weights below MinWeight are
// raised to MinWeight.
func (e *Editor) AddEdge(from, to int, weight float64) (graph.Edge, bool, error) {
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return graph.Edge{}, false, errors.New(errors.ErrCodeInvalidInput, "weight must be finite")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.locked() {
		return graph.Edge{}, false, ErrLocked
	}
	for _, id := range []int{from, to} {
		if _, ok := e.g.Node(id); !ok {
			return graph.Edge{}, false, errors.New(errors.ErrCodeInvalidInput, "unknown node %d", id)
		}
	}
	if from == to || e.g.HasEdgeBetween(from, to) {
		return graph.Edge{}, false, nil
	}
	edge := graph.Edge{
		ID:     nextEdgeID(e.g.Edges),
		From:   from,
		To:     to,
		Weight: max(weight, MinWeight),
		Color:  graph.ColorUnprocessed,
	}
	e.g.Edges = append(e.g.Edges, edge)
	return edge, true, nil
}

// RemoveNode deletes a node and every edge touching it. It returns the number
// of edges removed along with the node.
func (e *Editor) RemoveNode(id int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.locked() {
		return 0, ErrLocked
	}
	idx := -1
	for i, n := range e.g.Nodes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, errors.New(errors.ErrCodeNotFound, "node %d not found", id)
	}
	e.g.Nodes = append(e.g.Nodes[:idx:idx], e.g.Nodes[idx+1:]...)

	kept := e.g.Edges[:0:0]
	for _, edge := range e.g.Edges {
		if !edge.Touches(id) {
			kept = append(kept, edge)
		}
	}
	removed := len(e.g.Edges) - len(kept)
	e.g.Edges = kept
	return removed, nil
}

// RemoveEdge deletes an edge by id.
func (e *Editor) RemoveEdge(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.locked() {
		return ErrLocked
	}
	for i, edge := range e.g.Edges {
		if edge.ID == id {
			e.g.Edges = append(e.g.Edges[:i:i], e.g.Edges[i+1:]...)
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "edge %d not found", id)
}

// MoveNode repositions a node. Overlap is allowed while dragging.
func (e *Editor) MoveNode(id int, x, y float64) error {
	if err := checkCoords(x, y); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.locked() {
		return ErrLocked
	}
	for i := range e.g.Nodes {
		if e.g.Nodes[i].ID == id {
			e.g.Nodes[i].X, e.g.Nodes[i].Y = x, y
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "node %d not found", id)
}

// NodeAt returns the first node within PickRadius of (x, y).
func (e *Editor) NodeAt(x, y float64) (graph.Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nodeAt(x, y)
}

// EdgeAt returns the first edge whose midpoint lies within EdgePickRadius of (x, y).
func (e *Editor) EdgeAt(x, y float64) (graph.Edge, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, edge := range e.g.Edges {
		a, ok1 := e.g.Node(edge.From)
		b, ok2 := e.g.Node(edge.To)
		if !ok1 || !ok2 {
			continue
		}
		mx, my := (a.X+b.X)/2, (a.Y+b.Y)/2
		if math.Hypot(mx-x, my-y) < EdgePickRadius {
			return edge, true
		}
	}
	return graph.Edge{}, false
}

// Clear removes every node and edge.
func (e *Editor) Clear() error {
	return e.Replace(graph.Graph{})
}

// Replace swaps in a new graph after validating it. Edge display tags are reset.
func (e *Editor) Replace(g graph.Graph) error {
	if err := g.Validate(); err != nil {
		return err
	}
	g = g.Clone()
	g.ResetColors()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.locked() {
		return ErrLocked
	}
	e.g = g
	return nil
}

func (e *Editor) nodeAt(x, y float64) (graph.Node, bool) {
	for _, n := range e.g.Nodes {
		if math.Hypot(n.X-x, n.Y-y) < PickRadius {
			return n, true
		}
	}
	return graph.Node{}, false
}

func nextNodeID(nodes []graph.Node) int {
	next := 0
	for _, n := range nodes {
		next = max(next, n.ID+1)
	}
	return next
}

func nextEdgeID(edges []graph.Edge) int {
	next := 0
	for _, e := range edges {
		next = max(next, e.ID+1)
	}
	return next
}

func checkCoords(x, y float64) error {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "coordinates must be finite")
	}
	return nil
}
