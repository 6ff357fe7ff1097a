package controller

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/kruskalviz/pkg/editor"
	"github.com/matzehuels/kruskalviz/pkg/engine"
	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/graph"
	"github.com/matzehuels/kruskalviz/pkg/layout"
	"github.com/matzehuels/kruskalviz/pkg/render"
	"github.com/matzehuels/kruskalviz/pkg/store"
)

func square() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{{ID: 0, X: 100, Y: 100}, {ID: 1, X: 300, Y: 100}, {ID: 2, X: 300, Y: 300}, {ID: 3, X: 100, Y: 300}},
		Edges: []graph.Edge{
			{ID: 0, From: 0, To: 1, Weight: 4},
			{ID: 1, From: 1, To: 2, Weight: 1},
			{ID: 2, From: 2, To: 3, Weight: 2},
			{ID: 3, From: 3, To: 0, Weight: 3},
			{ID: 4, From: 0, To: 2, Weight: 9},
		},
	}
}

func newTestController(t *testing.T, g graph.Graph, delay time.Duration, opts ...Option) *Controller {
	t.Helper()
	opts = append(opts, WithEngineOptions(engine.WithStepDelay(delay)))
	c := New(g, opts...)
	t.Cleanup(func() { c.Close() })
	return c
}

func runToEnd(t *testing.T, c *Controller) engine.Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h, err := c.Start(ctx)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	final, err := c.Engine().Wait(ctx, h)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	return final
}

func TestStartRunsToCompletion(t *testing.T) {
	c := newTestController(t, square(), 0)
	final := runToEnd(t, c)

	if !final.Finished {
		t.Fatal("run did not finish")
	}
	want := []string{"(1,2)", "(2,3)", "(3,0)"}
	if strings.Join(final.Log, " ") != strings.Join(want, " ") {
		t.Errorf("Log = %v, want %v", final.Log, want)
	}
	if final.TotalWeight != 6 {
		t.Errorf("TotalWeight = %v, want 6", final.TotalWeight)
	}
}

func TestStartEmptyGraph(t *testing.T) {
	c := newTestController(t, graph.Graph{}, 0)
	if _, err := c.Start(context.Background()); err != engine.ErrEmptyGraph {
		t.Errorf("Start() error = %v, want ErrEmptyGraph", err)
	}
	if c.Engine().State() != engine.Idle {
		t.Errorf("state = %s, want idle", c.Engine().State())
	}
}

func TestEditingLockedDuringRun(t *testing.T) {
	c := newTestController(t, square(), time.Hour)
	if _, err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, _, err := c.Editor().AddNode(500, 350); err != editor.ErrLocked {
		t.Errorf("AddNode() error = %v, want ErrLocked", err)
	}
	if _, err := c.Generate(layout.Options{}); !errors.Is(err, errors.ErrCodeRunActive) {
		t.Errorf("Generate() error = %v, want RUN_ACTIVE", err)
	}
	if _, err := c.Start(context.Background()); !errors.Is(err, errors.ErrCodeRunActive) {
		t.Errorf("second Start() error = %v, want RUN_ACTIVE", err)
	}
	if err := c.SetStepDelay(time.Second); !errors.Is(err, errors.ErrCodeRunActive) {
		t.Errorf("SetStepDelay() error = %v, want RUN_ACTIVE", err)
	}

	if err := c.Stop(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Editor().AddNode(500, 350); err != nil {
		t.Errorf("AddNode() after stop error = %v", err)
	}
}

func TestTogglePause(t *testing.T) {
	c := newTestController(t, square(), time.Hour)

	if err := c.TogglePause(); !errors.Is(err, errors.ErrCodeRunInactive) {
		t.Errorf("TogglePause() with no run = %v, want RUN_INACTIVE", err)
	}
	if err := c.Pause(); !errors.Is(err, errors.ErrCodeRunInactive) {
		t.Errorf("Pause() with no run = %v, want RUN_INACTIVE", err)
	}

	if _, err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.TogglePause(); err != nil {
		t.Fatal(err)
	}
	if got := c.Engine().State(); got != engine.Paused {
		t.Errorf("state = %s, want paused", got)
	}
	if err := c.TogglePause(); err != nil {
		t.Fatal(err)
	}
	if got := c.Engine().State(); got != engine.Running {
		t.Errorf("state = %s, want running", got)
	}
	if err := c.Pause(); err != nil {
		t.Fatal(err)
	}
	if err := c.Resume(); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateAfterFinishedRun(t *testing.T) {
	c := newTestController(t, square(), 0, WithGenerateOptions(layout.Options{
		Nodes: 5, ExtraEdges: 2, Layout: layout.Circle, MaxWeight: 9, Seed: 7,
	}))
	runToEnd(t, c)

	g, err := c.Generate(layout.Options{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(g.Nodes) != 5 || len(g.Edges) != 6 {
		t.Errorf("generated %d nodes, %d edges; want 5, 6", len(g.Nodes), len(g.Edges))
	}
	if c.Engine().State() != engine.Idle {
		t.Errorf("state = %s, want idle", c.Engine().State())
	}
	if len(c.Graph().Nodes) != 5 {
		t.Error("generated graph was not installed")
	}

	again, _ := c.Generate(layout.Options{})
	if again.Edges[0] != g.Edges[0] {
		t.Error("a fixed seed should reproduce the graph")
	}
}

func TestFrameFollowsRun(t *testing.T) {
	c := newTestController(t, square(), 0)

	f := c.Frame()
	if len(f.Accepted) != 0 || f.Current != nil || len(f.Edges) != 5 {
		t.Errorf("idle frame = %+v", f)
	}

	runToEnd(t, c)
	f, snap := c.View()
	if !snap.Finished || len(f.Accepted) != 3 {
		t.Errorf("finished frame accepted = %d", len(f.Accepted))
	}
	excluded := 0
	for _, e := range f.Edges {
		if f.EdgeStatus(e) == render.StatusExcluded {
			excluded++
		}
	}
	if excluded != 2 {
		t.Errorf("excluded edges = %d, want 2", excluded)
	}

	if err := c.Reset(); err != nil {
		t.Fatal(err)
	}
	f = c.Frame()
	if len(f.Accepted) != 0 {
		t.Error("Reset should clear the tree")
	}
	for _, e := range f.Edges {
		if e.Color != graph.ColorUnprocessed {
			t.Errorf("edge %d color = %q after reset", e.ID, e.Color)
		}
	}
}

func TestLoadAndSave(t *testing.T) {
	c := newTestController(t, graph.Graph{}, 0)

	if err := c.Load(strings.NewReader(`{"nodes":[{"id":0,"x":1,"y":2}]}`)); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("Load(partial) error = %v, want INVALID_GRAPH", err)
	}
	if len(c.Graph().Nodes) != 0 {
		t.Error("a rejected import must leave the graph unchanged")
	}

	var buf bytes.Buffer
	c2 := newTestController(t, square(), 0)
	if err := c2.Save(&buf); err != nil {
		t.Fatal(err)
	}
	if err := c.Load(&buf); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(c.Graph().Edges) != 5 {
		t.Errorf("loaded %d edges, want 5", len(c.Graph().Edges))
	}

	path := filepath.Join(t.TempDir(), "square.yaml")
	if err := c.SaveFile(path); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(c.Graph().Nodes) != 4 {
		t.Errorf("LoadFile() nodes = %d", len(c.Graph().Nodes))
	}
}

func TestNamedGraphs(t *testing.T) {
	ctx := context.Background()

	disabled := newTestController(t, square(), 0)
	if err := disabled.SaveNamed(ctx, "sq"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("SaveNamed() without store = %v, want UNSUPPORTED", err)
	}

	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := newTestController(t, square(), 0, WithStore(s))
	if err := c.SaveNamed(ctx, "sq"); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := c.LoadNamed(ctx, "sq"); err != nil {
		t.Fatal(err)
	}
	if len(c.Graph().Nodes) != 4 {
		t.Error("LoadNamed() did not restore the graph")
	}
	names, err := c.ListNamed(ctx)
	if err != nil || len(names) != 1 || names[0] != "sq" {
		t.Errorf("ListNamed() = %v, %v", names, err)
	}
	if err := c.DeleteNamed(ctx, "sq"); err != nil {
		t.Fatal(err)
	}
	if err := c.LoadNamed(ctx, "sq"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("LoadNamed() after delete = %v, want NOT_FOUND", err)
	}
}

func TestStepDelay(t *testing.T) {
	c := newTestController(t, square(), 0)
	if err := c.SetStepDelay(250 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if c.StepDelay() != 250*time.Millisecond {
		t.Errorf("StepDelay() = %v", c.StepDelay())
	}
	if err := c.SetStepDelay(-1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SetStepDelay(-1) = %v", err)
	}
}
