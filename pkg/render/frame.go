package render

import (
	"slices"

	"github.com/matzehuels/kruskalviz/pkg/graph"
)

// Frame is everything needed to draw one moment of a run.
type Frame struct {
	Nodes    []graph.Node
	Edges    []graph.Edge
	Accepted []graph.Edge
	Current  *graph.Edge
}

// NewFrame builds a frame from the graph's nodes and the run's view of the
// edges. A nil edges slice falls back to g.Edges. Inputs are copied.
func NewFrame(g graph.Graph, edges, accepted []graph.Edge, current *graph.Edge) Frame {
	if edges == nil {
		edges = g.Edges
	}
	f := Frame{
		Nodes:    slices.Clone(g.Nodes),
		Edges:    slices.Clone(edges),
		Accepted: slices.Clone(accepted),
	}
	if current != nil {
		c := *current
		f.Current = &c
	}
	return f
}

// Status is an edge's visual state.
type Status int

// Edge states in rendering priority order.
const (
	StatusUnprocessed Status = iota
	StatusExcluded
	StatusCurrent
	StatusAccepted
)

var statusNames = [...]string{"unprocessed", "excluded", "current", "mst"}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Color returns the stroke color for the status.
func (s Status) Color() string {
	switch s {
	case StatusAccepted:
		return graph.ColorAccepted
	case StatusCurrent:
		return graph.ColorCurrent
	case StatusExcluded:
		return graph.ColorExcluded
	default:
		return graph.ColorUnprocessed
	}
}

// EdgeStatus classifies an edge within the frame.
func (f Frame) EdgeStatus(e graph.Edge) Status {
	for _, a := range f.Accepted {
		if a.ID == e.ID {
			return StatusAccepted
		}
	}
	if f.Current != nil && f.Current.ID == e.ID {
		return StatusCurrent
	}
	if e.Color == graph.ColorExcluded {
		return StatusExcluded
	}
	return StatusUnprocessed
}

// EdgeColor returns the stroke color for e. Unknown custom tags are kept.
func (f Frame) EdgeColor(e graph.Edge) string {
	switch s := f.EdgeStatus(e); s {
	case StatusUnprocessed:
		if e.Color != "" {
			return e.Color
		}
		return s.Color()
	default:
		return s.Color()
	}
}

// Node fill colors.
const (
	FillDefault  = "#ffffff"
	FillAccepted = "#9fd1a3"
	FillCurrent  = "#ffa384"
)

// NodeColors returns stroke and fill for node id: MST membership wins over
// being an endpoint of the current edge.
func (f Frame) NodeColors(id int) (stroke, fill string) {
	for _, a := range f.Accepted {
		if a.Touches(id) {
			return graph.ColorAccepted, FillAccepted
		}
	}
	if f.Current != nil && f.Current.Touches(id) {
		return graph.ColorCurrent, FillCurrent
	}
	return graph.ColorNode, FillDefault
}

// LegendEntry is one swatch of the color legend.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Legend lists the edge colors in display order.
func Legend() []LegendEntry {
	return []LegendEntry{
		{Label: "Current", Color: graph.ColorCurrent},
		{Label: "MST", Color: graph.ColorAccepted},
		{Label: "Unprocessed", Color: graph.ColorUnprocessed},
		{Label: "Excluded", Color: graph.ColorExcluded},
	}
}
