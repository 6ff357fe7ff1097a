package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/graph"
)

func TestGenerateConnected(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			for seed := uint64(1); seed <= 20; seed++ {
				opts := DefaultOptions()
				opts.Layout = kind
				opts.Seed = seed
				g, err := Generate(opts)
				if err != nil {
					t.Fatalf("Generate() error = %v", err)
				}
				if err := g.Validate(); err != nil {
					t.Fatalf("seed %d: invalid graph: %v", seed, err)
				}
				if len(g.Nodes) != DefaultNodes {
					t.Errorf("seed %d: %d nodes, want %d", seed, len(g.Nodes), DefaultNodes)
				}
				if want := DefaultNodes - 1 + DefaultExtraEdges; len(g.Edges) != want {
					t.Errorf("seed %d: %d edges, want %d", seed, len(g.Edges), want)
				}
				if c := g.Components(); c != 1 {
					t.Errorf("seed %d: %d components, want 1", seed, c)
				}
			}
		})
	}
}

func TestGenerateNoDuplicatePairs(t *testing.T) {
	g, err := Generate(Options{Nodes: 6, ExtraEdges: 100, Layout: Circle, MaxWeight: 5, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if want := 6 * 5 / 2; len(g.Edges) != want {
		t.Errorf("extra edges are capped by available pairs: got %d, want %d", len(g.Edges), want)
	}
	seen := map[pair]bool{}
	for _, e := range g.Edges {
		p := orderedPair(e.From, e.To)
		if seen[p] {
			t.Errorf("duplicate pair %v", p)
		}
		seen[p] = true
		if e.Weight < 1 || e.Weight > 5 || e.Weight != math.Trunc(e.Weight) {
			t.Errorf("weight %v outside [1, 5] or not integral", e.Weight)
		}
		if e.Color != graph.ColorUnprocessed {
			t.Errorf("edge color = %q", e.Color)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	opts := Options{Nodes: 10, ExtraEdges: 5, Layout: Auto, MaxWeight: 50, Seed: 99}
	a, _ := Generate(opts)
	b, _ := Generate(opts)
	if len(a.Edges) != len(b.Edges) {
		t.Fatal("edge counts differ for the same seed")
	}
	for i := range a.Edges {
		if a.Edges[i] != b.Edges[i] {
			t.Errorf("edge %d differs: %+v vs %+v", i, a.Edges[i], b.Edges[i])
		}
	}
	for i := range a.Nodes {
		if a.Nodes[i] != b.Nodes[i] {
			t.Errorf("node %d differs", i)
		}
	}
}

func TestGenerateSingleNode(t *testing.T) {
	g, err := Generate(Options{Nodes: 1, ExtraEdges: 3, Layout: Grid, MaxWeight: 10, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Nodes) != 1 || len(g.Edges) != 0 {
		t.Errorf("got %d nodes, %d edges; want 1, 0", len(g.Nodes), len(g.Edges))
	}
}

func TestCirclePlacement(t *testing.T) {
	for _, n := range circle(8) {
		r := math.Hypot(n.X-CanvasWidth/2, n.Y-CanvasHeight/2)
		if math.Abs(r-CircleRadius) > 1e-9 {
			t.Errorf("node %d at radius %v, want %v", n.ID, r, CircleRadius)
		}
	}
}

func TestGridPlacement(t *testing.T) {
	nodes := grid(5) // 3 columns
	if nodes[1].X-nodes[0].X != GridSpacing {
		t.Errorf("column spacing = %v", nodes[1].X-nodes[0].X)
	}
	if nodes[3].Y-nodes[0].Y != GridSpacing || nodes[3].X != nodes[0].X {
		t.Errorf("node 3 should start the second row: %+v", nodes[3])
	}
}

func TestScatterSeparation(t *testing.T) {
	nodes, err := GenerateNodes(10, Options{Layout: Random, Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	for i := range nodes {
		n := nodes[i]
		if n.X < MarginX || n.X > CanvasWidth-MarginX || n.Y < MarginY || n.Y > CanvasHeight-MarginY {
			t.Errorf("node %d outside margins: %+v", n.ID, n)
		}
		for j := i + 1; j < len(nodes); j++ {
			if d := math.Hypot(n.X-nodes[j].X, n.Y-nodes[j].Y); d < MinSeparation {
				t.Errorf("nodes %d and %d only %.1f apart", i, j, d)
			}
		}
	}
}

func TestGenerateEdgesOverSparseIDs(t *testing.T) {
	nodes := []graph.Node{{ID: 3}, {ID: 8}, {ID: 20}}
	edges, err := GenerateEdges(nodes, 0, Options{Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	g := graph.Graph{Nodes: nodes, Edges: edges}
	if err := g.Validate(); err != nil {
		t.Fatal(err)
	}
	if g.Components() != 1 || len(edges) != 2 {
		t.Errorf("want spanning tree of 2 edges, got %d edges, %d components", len(edges), g.Components())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"ZeroNodes", Options{Nodes: 0, MaxWeight: 1}, errors.ErrCodeInvalidInput},
		{"NegativeExtra", Options{Nodes: 2, ExtraEdges: -1, MaxWeight: 1}, errors.ErrCodeInvalidInput},
		{"ZeroWeight", Options{Nodes: 2}, errors.ErrCodeInvalidInput},
		{"UnknownLayout", Options{Nodes: 2, MaxWeight: 1, Layout: "spiral"}, errors.ErrCodeInvalidLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Generate() error = %v, want code %s", err, tt.code)
			}
		})
	}
}
