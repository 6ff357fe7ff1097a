// Package layout generates random connected graphs for the visualizer.
//
// Node positions come from one of three placements on an 800x400 canvas:
//
//   - [Circle]: evenly spaced on a circle of radius 250 around the canvas center
//   - [Grid]: rows of ceil(sqrt(n)) columns, 100 units apart, centered
//   - [Random]: uniform inside the canvas margins, at least 50 units apart
//
// [Auto] picks one of the three uniformly per call.
//
// Edges always form a connected graph: a random spanning tree over a shuffled
// node order, plus up to ExtraEdges distinct pairs that are not tree edges.
// Weights are uniform integers in [1, MaxWeight].
//
// Generation is deterministic for a non-zero Seed.
package layout

import (
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/graph"
)

// Kind selects a node placement strategy.
type Kind string

// Supported placements.
const (
	Circle Kind = "circle"
	Grid   Kind = "grid"
	Random Kind = "random"
	Auto   Kind = "auto"
)

// Kinds lists every accepted placement name.
var Kinds = []Kind{Circle, Grid, Random, Auto}

// Canvas geometry.
const (
	CanvasWidth   = 800.0
	CanvasHeight  = 400.0
	CircleRadius  = 250.0
	GridSpacing   = 100.0
	MarginX       = 100.0
	MarginY       = 50.0
	MinSeparation = 50.0

	// maxPlacementAttempts bounds the rejection sampling for Random so dense
	// requests still terminate; the last candidate is kept.
	maxPlacementAttempts = 200
)

// Defaults used when Options fields are zero.
const (
	DefaultNodes      = 7
	DefaultExtraEdges = 8
	DefaultMaxWeight  = 50
)

// Options configure graph generation.
type Options struct {
	Nodes      int
	ExtraEdges int
	Layout     Kind
	MaxWeight  int
	// Seed makes generation reproducible. Zero seeds from the clock.
	Seed uint64
}

// DefaultOptions returns the interactive defaults: 7 nodes, 8 extra edges,
// auto layout and weights up to 50.
func DefaultOptions() Options {
	return Options{
		Nodes:      DefaultNodes,
		ExtraEdges: DefaultExtraEdges,
		Layout:     Auto,
		MaxWeight:  DefaultMaxWeight,
	}
}

// Validate checks option ranges and the layout name.
func (o Options) Validate() error {
	if o.Nodes < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "nodes must be at least 1, got %d", o.Nodes)
	}
	if o.ExtraEdges < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "extra edges must be non-negative, got %d", o.ExtraEdges)
	}
	if o.MaxWeight < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "max weight must be at least 1, got %d", o.MaxWeight)
	}
	return ValidateKind(string(o.Layout))
}

// ValidateKind reports whether name is a known placement. Empty means auto.
func ValidateKind(name string) error {
	if name == "" || slices.Contains(Kinds, Kind(name)) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q (want circle, grid, random or auto)", name)
}

// Generate builds a random connected graph.
func Generate(opts Options) (graph.Graph, error) {
	if err := opts.Validate(); err != nil {
		return graph.Graph{}, err
	}
	rng := newRNG(opts.Seed)
	nodes := placeNodes(opts.Nodes, opts.Layout, rng)
	edges := connect(nodes, opts.ExtraEdges, opts.MaxWeight, rng)
	return graph.Graph{Nodes: nodes, Edges: edges}, nil
}

// GenerateNodes places n nodes with ids 0..n-1.
func GenerateNodes(n int, opts Options) ([]graph.Node, error) {
	opts.Nodes = n
	if opts.MaxWeight == 0 {
		opts.MaxWeight = DefaultMaxWeight
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return placeNodes(n, opts.Layout, newRNG(opts.Seed)), nil
}

// GenerateEdges connects nodes with a random spanning tree and up to extra
// additional non-tree edges.
func GenerateEdges(nodes []graph.Node, extra int, opts Options) ([]graph.Edge, error) {
	if extra < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "extra edges must be non-negative, got %d", extra)
	}
	maxWeight := opts.MaxWeight
	if maxWeight == 0 {
		maxWeight = DefaultMaxWeight
	}
	if maxWeight < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "max weight must be at least 1, got %d", maxWeight)
	}
	return connect(nodes, extra, maxWeight, newRNG(opts.Seed)), nil
}

func newRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// =============================================================================
// Placement
// =============================================================================

func placeNodes(n int, kind Kind, rng *rand.Rand) []graph.Node {
	if kind == "" || kind == Auto {
		kind = []Kind{Circle, Grid, Random}[rng.IntN(3)]
	}
	switch kind {
	case Circle:
		return circle(n)
	case Grid:
		return grid(n)
	default:
		return scatter(n, rng)
	}
}

func circle(n int) []graph.Node {
	cx, cy := CanvasWidth/2, CanvasHeight/2
	nodes := make([]graph.Node, n)
	for i := range nodes {
		theta := 2 * math.Pi * float64(i) / float64(n)
		nodes[i] = graph.Node{
			ID: i,
			X:  cx + CircleRadius*math.Cos(theta),
			Y:  cy + CircleRadius*math.Sin(theta),
		}
	}
	return nodes
}

func grid(n int) []graph.Node {
	cx, cy := CanvasWidth/2, CanvasHeight/2
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	half := float64(cols) * GridSpacing / 2
	nodes := make([]graph.Node, n)
	for i := range nodes {
		nodes[i] = graph.Node{
			ID: i,
			X:  cx - half + float64(i%cols)*GridSpacing,
			Y:  cy - half + float64(i/cols)*GridSpacing,
		}
	}
	return nodes
}

func scatter(n int, rng *rand.Rand) []graph.Node {
	nodes := make([]graph.Node, 0, n)
	for i := 0; i < n; i++ {
		var x, y float64
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			x = rng.Float64()*(CanvasWidth-2*MarginX) + MarginX
			y = rng.Float64()*(CanvasHeight-2*MarginY) + MarginY
			if !crowded(nodes, x, y) {
				break
			}
		}
		nodes = append(nodes, graph.Node{ID: i, X: x, Y: y})
	}
	return nodes
}

func crowded(nodes []graph.Node, x, y float64) bool {
	for _, n := range nodes {
		if math.Hypot(n.X-x, n.Y-y) < MinSeparation {
			return true
		}
	}
	return false
}

// =============================================================================
// Edges
// =============================================================================

type pair struct{ a, b int }

func orderedPair(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

func connect(nodes []graph.Node, extra, maxWeight int, rng *rand.Rand) []graph.Edge {
	weight := func() float64 { return float64(rng.IntN(maxWeight) + 1) }

	shuffled := slices.Clone(nodes)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	edges := make([]graph.Edge, 0, len(nodes)-1+extra)
	used := make(map[pair]struct{}, len(nodes)-1+extra)
	for i := 1; i < len(shuffled); i++ {
		from, to := shuffled[i].ID, shuffled[rng.IntN(i)].ID
		edges = append(edges, graph.Edge{ID: len(edges), From: from, To: to, Weight: weight(), Color: graph.ColorUnprocessed})
		used[orderedPair(from, to)] = struct{}{}
	}

	var candidates []pair
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			p := orderedPair(nodes[i].ID, nodes[j].ID)
			if _, ok := used[p]; !ok {
				candidates = append(candidates, p)
			}
		}
	}

	for k := 0; k < extra && len(candidates) > 0; k++ {
		idx := rng.IntN(len(candidates))
		p := candidates[idx]
		candidates = slices.Delete(candidates, idx, idx+1)
		edges = append(edges, graph.Edge{ID: len(edges), From: p.a, To: p.b, Weight: weight(), Color: graph.ColorUnprocessed})
	}
	return edges
}
