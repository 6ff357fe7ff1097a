package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/kruskalviz/pkg/controller"
	"github.com/matzehuels/kruskalviz/pkg/engine"
	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/graph"
)

func squareGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{{ID: 0, X: 100, Y: 100}, {ID: 1, X: 300, Y: 100}, {ID: 2, X: 300, Y: 300}, {ID: 3, X: 100, Y: 300}},
		Edges: []graph.Edge{
			{ID: 0, From: 0, To: 1, Weight: 4},
			{ID: 1, From: 1, To: 2, Weight: 1},
			{ID: 2, From: 2, To: 3, Weight: 2},
			{ID: 3, From: 3, To: 0, Weight: 3},
		},
	}
}

func newTestModel(t *testing.T, delay time.Duration) (runModel, *controller.Controller) {
	t.Helper()
	ctrl := controller.New(squareGraph(), controller.WithEngineOptions(engine.WithStepDelay(delay)))
	t.Cleanup(func() { ctrl.Close() })
	updates, cancel := ctrl.Engine().Subscribe()
	t.Cleanup(cancel)
	return newRunModel(context.Background(), ctrl, updates, false), ctrl
}

func press(t *testing.T, m runModel, key string) runModel {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(runModel)
}

func TestRunModelControls(t *testing.T) {
	m, ctrl := newTestModel(t, time.Hour)

	if got := m.helpLine(); !strings.Contains(got, "s start") {
		t.Errorf("idle help = %q", got)
	}

	m = press(t, m, "s")
	if m.err != nil {
		t.Fatalf("start: %v", m.err)
	}
	if m.snap.State != engine.Running {
		t.Fatalf("state = %v, want running", m.snap.State)
	}

	m = press(t, m, " ")
	if m.snap.State != engine.Paused {
		t.Errorf("after space state = %v, want paused", m.snap.State)
	}
	if !strings.Contains(m.helpLine(), "space resume") {
		t.Errorf("paused help = %q", m.helpLine())
	}

	m = press(t, m, "p")
	if m.snap.State != engine.Running {
		t.Errorf("after p state = %v, want running", m.snap.State)
	}

	m = press(t, m, "+")
	if !errors.Is(m.err, errors.ErrCodeRunActive) {
		t.Errorf("delay change during run err = %v, want RUN_ACTIVE", m.err)
	}
	if !strings.Contains(m.View(), "run is already active") {
		t.Error("error not shown in view")
	}

	m = press(t, m, "x")
	if m.err != nil || m.snap.State != engine.Idle {
		t.Errorf("after stop: state %v, err %v", m.snap.State, m.err)
	}

	m = press(t, m, "-")
	if got := ctrl.StepDelay(); got != time.Hour-delayStep {
		t.Errorf("delay = %v, want %v", got, time.Hour-delayStep)
	}
}

func TestRunModelToggleWhileIdle(t *testing.T) {
	m, _ := newTestModel(t, time.Hour)
	m = press(t, m, " ")
	if !errors.Is(m.err, errors.ErrCodeRunInactive) {
		t.Errorf("err = %v, want RUN_INACTIVE", m.err)
	}
	m = press(t, m, "?")
	if m.err != nil {
		t.Errorf("unbound key left err = %v, want cleared", m.err)
	}
}

func TestRunModelGenerate(t *testing.T) {
	m, ctrl := newTestModel(t, time.Hour)
	m = press(t, m, "g")
	if m.err != nil {
		t.Fatalf("generate: %v", m.err)
	}
	if got := len(ctrl.Graph().Nodes); got != len(m.frame.Nodes) {
		t.Errorf("frame has %d nodes, graph %d", len(m.frame.Nodes), got)
	}
}

func TestRunModelFollowsSnapshots(t *testing.T) {
	m, ctrl := newTestModel(t, 0)

	h, err := ctrl.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	final, err := ctrl.Engine().Wait(context.Background(), h)
	if err != nil {
		t.Fatal(err)
	}

	next, cmd := m.Update(snapshotMsg{Snapshot: final})
	m = next.(runModel)
	if cmd == nil {
		t.Error("snapshot should re-arm the subscription")
	}
	if !m.snap.Finished {
		t.Fatalf("model not finished: %+v", m.snap)
	}

	view := m.View()
	for _, want := range []string{"finished", "MST weight 6", "(1,2)", "(2,3)", "(3,0)", "excluded", "Current", "Unprocessed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if !strings.Contains(m.helpLine(), "s run again") {
		t.Errorf("finished help = %q", m.helpLine())
	}
}

func TestRunModelAutostart(t *testing.T) {
	ctrl := controller.New(squareGraph(), controller.WithEngineOptions(engine.WithStepDelay(time.Hour)))
	defer ctrl.Close()
	updates, cancel := ctrl.Engine().Subscribe()
	defer cancel()

	m := newRunModel(context.Background(), ctrl, updates, true)
	if m.Init() == nil {
		t.Fatal("Init returned no command")
	}
	next, _ := m.Update(startMsg{})
	if got := next.(runModel).snap.State; got != engine.Running {
		t.Errorf("state = %v, want running", got)
	}
}

func TestRunModelQuit(t *testing.T) {
	m, _ := newTestModel(t, time.Hour)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if next.(runModel).View() != "" {
		t.Error("view not cleared on quit")
	}
}

func TestWaitForSnapshotClosed(t *testing.T) {
	ch := make(chan engine.Snapshot)
	close(ch)
	if _, ok := waitForSnapshot(ch)().(streamClosedMsg); !ok {
		t.Error("closed subscription should yield streamClosedMsg")
	}
}
