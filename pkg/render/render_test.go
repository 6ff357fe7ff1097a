package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/kruskalviz/pkg/cache"
	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/graph"
)

func sampleFrame() Frame {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: 0, X: 100, Y: 50}, {ID: 1, X: 300, Y: 50}, {ID: 2, X: 200, Y: 200}, {ID: 3, X: 400, Y: 300}},
		Edges: []graph.Edge{
			{ID: 0, From: 0, To: 1, Weight: 1, Color: graph.ColorUnprocessed},
			{ID: 1, From: 1, To: 2, Weight: 2.5, Color: graph.ColorUnprocessed},
			{ID: 2, From: 0, To: 2, Weight: 7, Color: graph.ColorExcluded},
			{ID: 3, From: 2, To: 3, Weight: 4, Color: graph.ColorUnprocessed},
		},
	}
	current := g.Edges[3]
	return NewFrame(g, nil, g.Edges[:2], &current)
}

func TestEdgeStatus(t *testing.T) {
	f := sampleFrame()
	tests := []struct {
		id    int
		want  Status
		color string
	}{
		{0, StatusAccepted, graph.ColorAccepted},
		{1, StatusAccepted, graph.ColorAccepted},
		{2, StatusExcluded, graph.ColorExcluded},
		{3, StatusCurrent, graph.ColorCurrent},
	}
	for _, tt := range tests {
		e, _ := graph.Graph{Edges: f.Edges}.Edge(tt.id)
		if got := f.EdgeStatus(e); got != tt.want {
			t.Errorf("EdgeStatus(%d) = %s, want %s", tt.id, got, tt.want)
		}
		if got := f.EdgeColor(e); got != tt.color {
			t.Errorf("EdgeColor(%d) = %s, want %s", tt.id, got, tt.color)
		}
	}
}

func TestAcceptedBeatsCurrent(t *testing.T) {
	f := sampleFrame()
	c := f.Accepted[0]
	f.Current = &c
	if got := f.EdgeStatus(c); got != StatusAccepted {
		t.Errorf("status = %s, want mst", got)
	}
}

func TestNodeColors(t *testing.T) {
	f := sampleFrame()
	if stroke, fill := f.NodeColors(0); stroke != graph.ColorAccepted || fill != FillAccepted {
		t.Errorf("node 0 = %s/%s, want MST colors", stroke, fill)
	}
	if stroke, fill := f.NodeColors(3); stroke != graph.ColorCurrent || fill != FillCurrent {
		t.Errorf("node 3 = %s/%s, want current colors", stroke, fill)
	}
	f.Accepted = nil
	f.Current = nil
	if stroke, fill := f.NodeColors(0); stroke != graph.ColorNode || fill != FillDefault {
		t.Errorf("node 0 = %s/%s, want defaults", stroke, fill)
	}
}

func TestNewFrameCopies(t *testing.T) {
	g := graph.Graph{Nodes: []graph.Node{{ID: 0}}, Edges: []graph.Edge{}}
	cur := graph.Edge{ID: 9}
	f := NewFrame(g, nil, nil, &cur)
	f.Nodes[0].X = 50
	cur.ID = 1
	if g.Nodes[0].X != 0 || f.Current.ID != 9 {
		t.Error("NewFrame must copy its inputs")
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleFrame(), Options{Title: "Kruskal"})

	for _, want := range []string{
		"graph G {",
		"layout=neato;",
		`label="Kruskal";`,
		`"0" [pos="100,-50!", color="#4CAF50", fillcolor="#9fd1a3"];`,
		`"3" [pos="400,-300!", color="#FF5722", fillcolor="#ffa384"];`,
		`"0" -- "1" [color="#4CAF50", label="1", fontcolor="#4CAF50"];`,
		`"1" -- "2" [color="#4CAF50", label="2.5", fontcolor="#4CAF50"];`,
		`"0" -- "2" [color="#666", label="7", fontcolor="#666"];`,
		`"2" -- "3" [color="#FF5722", penwidth=3, label="4", fontcolor="#666"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "->") {
		t.Error("graph must be undirected")
	}
}

func TestToDOTHideWeights(t *testing.T) {
	dot := ToDOT(sampleFrame(), Options{HideWeights: true})
	if strings.Contains(dot, "label=\"2.5\"") {
		t.Error("weights should be hidden")
	}
}

func TestToDOTDoesNotMutateFrame(t *testing.T) {
	f := sampleFrame()
	before := ToDOT(f, Options{})
	after := ToDOT(f, Options{})
	if before != after {
		t.Error("ToDOT is not deterministic")
	}
	if f.Edges[2].Color != graph.ColorExcluded || f.Current.ID != 3 {
		t.Error("ToDOT mutated its input")
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range Formats {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	if err := ValidateFormat("pdf"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(pdf) = %v", err)
	}
}

func TestRenderDOT(t *testing.T) {
	out, err := Render(context.Background(), sampleFrame(), FormatDOT, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("graph G {")) {
		t.Errorf("unexpected DOT output: %s", out)
	}
}

func TestRenderSVG(t *testing.T) {
	out, err := Render(context.Background(), sampleFrame(), FormatSVG, Options{})
	if err != nil {
		t.Fatalf("Render(svg) error = %v", err)
	}
	if !bytes.Contains(out, []byte("<svg")) {
		t.Errorf("output is not SVG: %.200s", out)
	}
}

func TestRendererServesFromCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	keyer := cache.NewScopedKeyer(nil, "test:")
	r := NewRenderer(WithCache(c), WithKeyer(keyer))

	f := sampleFrame()
	key := keyer.RenderKey(cache.Hash([]byte(ToDOT(f, Options{}))), cache.RenderKeyOpts{Format: FormatSVG})
	if err := c.Set(ctx, key, []byte("<svg>cached</svg>"), 0); err != nil {
		t.Fatal(err)
	}

	out, err := r.Render(ctx, f, FormatSVG, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "<svg>cached</svg>" {
		t.Errorf("Render() = %q, want cached artifact", out)
	}

	if _, err := r.Render(ctx, f, "gif", Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="200pt" height="100pt" viewBox="0.00 0.00 200.00 100.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 200.00 100.00" width="200" height="100"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Error("SVG without viewBox should pass through")
	}
}

func TestLegend(t *testing.T) {
	legend := Legend()
	if len(legend) != 4 || legend[0].Label != "Current" || legend[3].Color != graph.ColorExcluded {
		t.Errorf("Legend() = %+v", legend)
	}
}
