package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Options configures rendering.
type Options struct {
	// Title is drawn above the graph when set.
	Title string
	// HideWeights drops the weight labels.
	HideWeights bool
}

// ToDOT converts a frame to an undirected Graphviz document with pinned node
// positions, for rendering with [RenderSVG] or [RenderPNG].
func ToDOT(f Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  pad=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=20;\n", opts.Title)
	}
	buf.WriteString("  node [shape=circle, fixedsize=true, width=0.56, style=filled, penwidth=3, fontsize=14, fontname=\"Helvetica-Bold\"];\n")
	buf.WriteString("  edge [penwidth=2, fontsize=13, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		stroke, fill := f.NodeColors(n.ID)
		fmt.Fprintf(&buf, "  %q [%s];\n", strconv.Itoa(n.ID), strings.Join([]string{
			fmt.Sprintf("pos=\"%s,%s!\"", num(n.X), num(-n.Y)),
			fmt.Sprintf("color=%q", stroke),
			fmt.Sprintf("fillcolor=%q", fill),
		}, ", "))
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		status := f.EdgeStatus(e)
		attrs := []string{fmt.Sprintf("color=%q", f.EdgeColor(e))}
		if status == StatusCurrent {
			attrs = append(attrs, "penwidth=3")
		}
		if !opts.HideWeights {
			labelColor := weightLabelColor
			if status == StatusAccepted {
				labelColor = status.Color()
			}
			attrs = append(attrs, fmt.Sprintf("label=%q", num(e.Weight)), fmt.Sprintf("fontcolor=%q", labelColor))
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", strconv.Itoa(e.From), strconv.Itoa(e.To), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// weightLabelColor is used for weights of edges outside the tree.
const weightLabelColor = "#666"

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
