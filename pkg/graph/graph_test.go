package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/kruskalviz/pkg/errors"
)

func square() Graph {
	return Graph{
		Nodes: []Node{{ID: 0, X: 0, Y: 0}, {ID: 1, X: 100, Y: 0}, {ID: 2, X: 100, Y: 100}, {ID: 3, X: 0, Y: 100}},
		Edges: []Edge{
			{ID: 0, From: 0, To: 1, Weight: 1},
			{ID: 1, From: 1, To: 2, Weight: 2},
			{ID: 2, From: 2, To: 3, Weight: 3},
			{ID: 3, From: 0, To: 3, Weight: 10, Color: ColorExcluded},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		g       Graph
		wantErr string
	}{
		{name: "Empty", g: Graph{}},
		{name: "Square", g: square()},
		{
			name:    "DuplicateNode",
			g:       Graph{Nodes: []Node{{ID: 1}, {ID: 1}}},
			wantErr: "duplicate node id 1",
		},
		{
			name: "DuplicateEdge",
			g: Graph{
				Nodes: []Node{{ID: 0}, {ID: 1}, {ID: 2}},
				Edges: []Edge{{ID: 4, From: 0, To: 1}, {ID: 4, From: 1, To: 2}},
			},
			wantErr: "duplicate edge id 4",
		},
		{
			name:    "UnknownEndpoint",
			g:       Graph{Nodes: []Node{{ID: 0}}, Edges: []Edge{{ID: 0, From: 0, To: 9}}},
			wantErr: "unknown node 9",
		},
		{
			name:    "SelfLoop",
			g:       Graph{Nodes: []Node{{ID: 0}}, Edges: []Edge{{ID: 0, From: 0, To: 0}}},
			wantErr: "self-loop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !errors.Is(err, errors.ErrCodeInvalidGraph) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidGraph)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestHasEdgeBetween(t *testing.T) {
	g := square()
	if !g.HasEdgeBetween(0, 1) || !g.HasEdgeBetween(1, 0) {
		t.Error("edge 0-1 should be found in both directions")
	}
	if g.HasEdgeBetween(0, 2) {
		t.Error("no edge between 0 and 2")
	}
}

func TestComponents(t *testing.T) {
	tests := []struct {
		name string
		g    Graph
		want int
	}{
		{"Empty", Graph{}, 0},
		{"Connected", square(), 1},
		{"Isolated", Graph{Nodes: []Node{{ID: 0}, {ID: 5}, {ID: 9}}}, 3},
		{
			"TwoTriangles",
			Graph{
				Nodes: []Node{{ID: 0}, {ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}},
				Edges: []Edge{
					{ID: 0, From: 0, To: 1}, {ID: 1, From: 1, To: 2}, {ID: 2, From: 2, To: 0},
					{ID: 3, From: 3, To: 4}, {ID: 4, From: 4, To: 5}, {ID: 5, From: 5, To: 3},
				},
			},
			2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.Components(); got != tt.want {
				t.Errorf("Components() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := square()
	c := g.Clone()
	c.Edges[0].Color = ColorAccepted
	c.Nodes[0].X = 999
	if g.Edges[0].Color == ColorAccepted || g.Nodes[0].X == 999 {
		t.Error("mutating the clone changed the original")
	}
}

func TestResetColors(t *testing.T) {
	g := square()
	g.ResetColors()
	for _, e := range g.Edges {
		if e.Color != ColorUnprocessed {
			t.Errorf("edge %d color = %q, want %q", e.ID, e.Color, ColorUnprocessed)
		}
	}
}

func TestTotalWeight(t *testing.T) {
	if got := TotalWeight(square().Edges[:3]); got != 6 {
		t.Errorf("TotalWeight() = %v, want 6", got)
	}
}

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		nodes   int
		edges   int
	}{
		{
			name:  "Valid",
			input: `{"nodes":[{"id":0,"x":1,"y":2},{"id":1,"x":3,"y":4}],"edges":[{"id":0,"from":0,"to":1,"weight":5}]}`,
			nodes: 2,
			edges: 1,
		},
		{
			name:  "EmptyLists",
			input: `{"nodes":[],"edges":[]}`,
		},
		{
			name:    "MissingEdges",
			input:   `{"nodes":[{"id":0,"x":1,"y":2}]}`,
			wantErr: "missing edges key",
		},
		{
			name:    "MissingNodes",
			input:   `{"edges":[]}`,
			wantErr: "missing nodes key",
		},
		{
			name:    "Malformed",
			input:   `{"nodes": [`,
			wantErr: "decode",
		},
		{
			name:    "DanglingEdge",
			input:   `{"nodes":[{"id":0}],"edges":[{"id":0,"from":0,"to":3,"weight":1}]}`,
			wantErr: "unknown node 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Read(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Read() = nil error, want %q", tt.wantErr)
				}
				if !errors.Is(err, errors.ErrCodeInvalidGraph) {
					t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidGraph)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if len(g.Nodes) != tt.nodes || len(g.Edges) != tt.edges {
				t.Errorf("got %d nodes, %d edges; want %d, %d", len(g.Nodes), len(g.Edges), tt.nodes, tt.edges)
			}
			for _, e := range g.Edges {
				if e.Color != ColorUnprocessed {
					t.Errorf("imported edge color = %q, want %q", e.Color, ColorUnprocessed)
				}
			}
		})
	}
}

func TestWriteOmitsColors(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(square(), &buf, WriteOptions{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if strings.Contains(buf.String(), "color") {
		t.Errorf("colors should be omitted by default:\n%s", buf.String())
	}

	buf.Reset()
	if err := Write(square(), &buf, WriteOptions{IncludeColors: true}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"color": "#666"`) {
		t.Errorf("IncludeColors should keep tags:\n%s", buf.String())
	}
}

func TestWriteEmptyGraphKeepsKeys(t *testing.T) {
	data, err := Marshal(Graph{}, WriteOptions{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["nodes"]) != "[]" || string(raw["edges"]) != "[]" {
		t.Errorf("empty graph encoded as %s", data)
	}
}

func TestFileRoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "graph"+ext)
			want := square()
			if err := WriteFile(want, path, WriteOptions{}); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if len(got.Nodes) != len(want.Nodes) || len(got.Edges) != len(want.Edges) {
				t.Fatalf("round trip changed sizes: %+v", got)
			}
			for i := range want.Edges {
				w, g := want.Edges[i], got.Edges[i]
				if w.ID != g.ID || w.From != g.From || w.To != g.To || w.Weight != g.Weight {
					t.Errorf("edge %d = %+v, want %+v", i, g, w)
				}
			}
			for i := range want.Nodes {
				if want.Nodes[i] != got.Nodes[i] {
					t.Errorf("node %d = %+v, want %+v", i, got.Nodes[i], want.Nodes[i])
				}
			}
		})
	}
}

func TestReadFileYAMLMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.yaml")
	if err := os.WriteFile(path, []byte("nodes:\n  - id: 0\n    x: 1\n    y: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadFile(path)
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Fatalf("ReadFile() error = %v, want INVALID_GRAPH", err)
	}
}

func TestReadFileNotFound(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"g.json": FormatJSON,
		"g.YAML": FormatYAML,
		"g.yml":  FormatYAML,
		"g":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
