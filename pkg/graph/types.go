package graph

import (
	"math"
	"slices"

	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/unionfind"
)

// =============================================================================
// Display Colors
// =============================================================================

// Edge and node display tags shared by the engine and the renderers.
const (
	ColorUnprocessed = "#ddd"
	ColorExcluded    = "#666"
	ColorAccepted    = "#4CAF50"
	ColorCurrent     = "#FF5722"
	ColorNode        = "#2196F3"
)

// =============================================================================
// Graph
// =============================================================================

// Graph is a weighted undirected graph.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges" bson:"edges"`
}

// Node is a graph vertex. X and Y are canvas coordinates used only for drawing.
type Node struct {
	ID int     `json:"id" yaml:"id" bson:"id"`
	X  float64 `json:"x" yaml:"x" bson:"x"`
	Y  float64 `json:"y" yaml:"y" bson:"y"`
}

// Edge is an undirected weighted connection between two nodes.
type Edge struct {
	ID     int     `json:"id" yaml:"id" bson:"id"`
	From   int     `json:"from" yaml:"from" bson:"from"`
	To     int     `json:"to" yaml:"to" bson:"to"`
	Weight float64 `json:"weight" yaml:"weight" bson:"weight"`
	Color  string  `json:"color,omitempty" yaml:"color,omitempty" bson:"color,omitempty"`
}

// Connects reports whether the edge joins a and b in either direction.
func (e Edge) Connects(a, b int) bool {
	return (e.From == a && e.To == b) || (e.From == b && e.To == a)
}

// Touches reports whether id is one of the edge's endpoints.
func (e Edge) Touches(id int) bool {
	return e.From == id || e.To == id
}

// Validate checks structural consistency: unique node and edge ids, edges
// referencing existing nodes, no self-loops, and finite weights.
func (g Graph) Validate() error {
	nodes := make(map[int]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := nodes[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %d", n.ID)
		}
		nodes[n.ID] = struct{}{}
	}

	edges := make(map[int]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		if _, dup := edges[e.ID]; dup {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate edge id %d", e.ID)
		}
		edges[e.ID] = struct{}{}

		if _, ok := nodes[e.From]; !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d references unknown node %d", e.ID, e.From)
		}
		if _, ok := nodes[e.To]; !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d references unknown node %d", e.ID, e.To)
		}
		if e.From == e.To {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d is a self-loop on node %d", e.ID, e.From)
		}
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %d has non-finite weight", e.ID)
		}
	}
	return nil
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	return Graph{
		Nodes: slices.Clone(g.Nodes),
		Edges: slices.Clone(g.Edges),
	}
}

// IsEmpty reports whether the graph has no nodes.
func (g Graph) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// NodeIndex maps each node id to its dense position in g.Nodes.
func (g Graph) NodeIndex() map[int]int {
	idx := make(map[int]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Node returns the node with the given id.
func (g Graph) Node(id int) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Edge returns the edge with the given id.
func (g Graph) Edge(id int) (Edge, bool) {
	for _, e := range g.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// HasEdgeBetween reports whether any edge joins a and b, regardless of direction.
func (g Graph) HasEdgeBetween(a, b int) bool {
	for _, e := range g.Edges {
		if e.Connects(a, b) {
			return true
		}
	}
	return false
}

// Components returns the number of connected components. Edges referencing
// unknown nodes are ignored.
func (g Graph) Components() int {
	idx := g.NodeIndex()
	ds := unionfind.New(len(g.Nodes))
	for _, e := range g.Edges {
		from, ok1 := idx[e.From]
		to, ok2 := idx[e.To]
		if ok1 && ok2 {
			ds.Union(from, to)
		}
	}
	return ds.Components()
}

// ResetColors restores every edge's display tag to [ColorUnprocessed].
func (g Graph) ResetColors() {
	for i := range g.Edges {
		g.Edges[i].Color = ColorUnprocessed
	}
}

// TotalWeight sums the weights of edges.
func TotalWeight(edges []Edge) float64 {
	var sum float64
	for _, e := range edges {
		sum += e.Weight
	}
	return sum
}
