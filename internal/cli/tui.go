package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/kruskalviz/pkg/controller"
	"github.com/matzehuels/kruskalviz/pkg/engine"
	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/graph"
	"github.com/matzehuels/kruskalviz/pkg/layout"
	"github.com/matzehuels/kruskalviz/pkg/render"
)

// delayStep is how much + and - change the step delay.
const delayStep = 250 * time.Millisecond

var (
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	errStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Messages
// =============================================================================

// snapshotMsg carries an engine snapshot into the update loop.
type snapshotMsg struct {
	Snapshot engine.Snapshot
}

// startMsg starts a run without a key press.
type startMsg struct{}

// streamClosedMsg reports that the engine closed the subscription.
type streamClosedMsg struct{}

// waitForSnapshot blocks on the subscription and delivers the next snapshot.
func waitForSnapshot(ch <-chan engine.Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return snapshotMsg{Snapshot: s}
	}
}

// =============================================================================
// runModel - Interactive run view
// =============================================================================

// runModel drives a controller from the keyboard and redraws on every
// snapshot the engine publishes.
type runModel struct {
	ctx     context.Context
	ctrl    *controller.Controller
	updates <-chan engine.Snapshot

	frame render.Frame
	snap  engine.Snapshot
	err   error
	// autostart begins a run as soon as the program starts.
	autostart bool
	quitting  bool
}

func newRunModel(ctx context.Context, ctrl *controller.Controller, updates <-chan engine.Snapshot, autostart bool) runModel {
	m := runModel{ctx: ctx, ctrl: ctrl, updates: updates, autostart: autostart}
	m.refresh()
	return m
}

func (m *runModel) refresh() {
	m.frame, m.snap = m.ctrl.View()
}

func (m runModel) Init() tea.Cmd {
	if m.autostart {
		return tea.Batch(waitForSnapshot(m.updates), func() tea.Msg { return startMsg{} })
	}
	return waitForSnapshot(m.updates)
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.refresh()
		return m, waitForSnapshot(m.updates)
	case streamClosedMsg:
		return m, nil
	case startMsg:
		_, m.err = m.ctrl.Start(m.ctx)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m runModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "s", "enter":
		_, m.err = m.ctrl.Start(m.ctx)
	case " ", "p":
		m.err = m.ctrl.TogglePause()
	case "x":
		m.err = m.ctrl.Stop()
	case "r":
		m.err = m.ctrl.Reset()
	case "g":
		_, m.err = m.ctrl.Generate(layout.Options{})
	case "+", "=":
		m.err = m.ctrl.SetStepDelay(m.ctrl.StepDelay() + delayStep)
	case "-", "_":
		m.err = m.ctrl.SetStepDelay(max(0, m.ctrl.StepDelay()-delayStep))
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m runModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Kruskal's Algorithm"))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	edges := panelStyle.Render(m.edgeTable())
	tree := panelStyle.Render(m.treePanel())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, edges, " ", tree))
	b.WriteString("\n")
	b.WriteString(legendLine())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(iconError + " " + errors.UserMessage(m.err)))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m runModel) statusLine() string {
	parts := []string{
		StyleNumber.Render(m.snap.State.String()),
		fmt.Sprintf("%d nodes", len(m.frame.Nodes)),
		fmt.Sprintf("%d edges", len(m.frame.Edges)),
		"delay " + m.ctrl.StepDelay().String(),
	}
	if m.snap.State != engine.Idle {
		parts = append(parts, fmt.Sprintf("edge %d/%d", m.snap.Cursor, m.snap.Total))
	}
	if m.snap.Finished {
		parts = append(parts, styleIconSuccess.Render(fmt.Sprintf("%s MST weight %s", iconSuccess, formatWeight(m.snap.TotalWeight))))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// edgeTable lists edges in processing order, colored by status.
func (m runModel) edgeTable() string {
	rows := make([][]string, 0, len(m.frame.Edges))
	statuses := make([]render.Status, 0, len(m.frame.Edges))
	for _, e := range m.frame.Edges {
		s := m.frame.EdgeStatus(e)
		marker := "  "
		if s == render.StatusCurrent {
			marker = "▸ "
		}
		rows = append(rows, []string{marker, strconv.Itoa(e.ID), edgeLabel(e), formatWeight(e.Weight), s.String()})
		statuses = append(statuses, s)
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("", "ID", "Edge", "Weight", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 || row >= len(statuses) {
				return headerStyle
			}
			return styleFor(statuses[row]).PaddingRight(1)
		})
	return StyleTitle.Render("Edges") + "\n" + t.Render()
}

// treePanel shows the acceptance sequence.
func (m runModel) treePanel() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Minimum spanning tree"))
	b.WriteString("\n")
	if len(m.snap.Log) == 0 {
		b.WriteString(StyleDim.Render("no edges accepted"))
		return b.String()
	}
	for i, entry := range m.snap.Log {
		w := ""
		if i < len(m.snap.Accepted) {
			w = StyleDim.Render(" w=" + formatWeight(m.snap.Accepted[i].Weight))
		}
		fmt.Fprintf(&b, "%s %s%s\n", StyleDim.Render(fmt.Sprintf("%2d.", i+1)), styleFor(render.StatusAccepted).Render(entry), w)
	}
	fmt.Fprintf(&b, "%s %s", StyleDim.Render("total"), StyleValue.Render(formatWeight(m.snap.TotalWeight)))
	return b.String()
}

func (m runModel) helpLine() string {
	switch m.snap.State {
	case engine.Running:
		return "space pause  x stop  r reset  q quit"
	case engine.Paused:
		return "space resume  x stop  r reset  q quit"
	case engine.Finished:
		return "s run again  r reset  g new graph  q quit"
	default:
		return "s start  g new graph  +/- delay  q quit"
	}
}

// =============================================================================
// Helpers
// =============================================================================

func legendLine() string {
	var parts []string
	for _, l := range render.Legend() {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color)).Render("■")+" "+StyleDim.Render(l.Label))
	}
	return strings.Join(parts, "  ")
}

func edgeLabel(e graph.Edge) string {
	return fmt.Sprintf("%d – %d", e.From, e.To)
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
