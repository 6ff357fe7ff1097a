// Package render draws the graph and the algorithm's progress.
//
// A [Frame] is the pure input to every renderer: nodes, edges with their
// display tags, the accepted (spanning forest) edges, and the edge under
// inspection. Renderers never modify a frame.
//
// # Color Rules
//
// Edge color is decided in priority order: accepted edges are green, the edge
// under inspection is orange, otherwise the edge's own tag (gray #666 for
// rejected edges) or the unprocessed default #ddd. Nodes touched by an
// accepted edge are filled green; endpoints of the current edge orange.
// [Legend] lists these for UIs.
//
// # Output Formats
//
// [ToDOT] produces an undirected Graphviz document with every node pinned at
// its canvas position (pos="x,-y!", y flipped because Graphviz grows upwards).
// [RenderSVG] and [RenderPNG] lay it out with neato, which honors pinned
// positions, through [github.com/goccy/go-graphviz]; no Graphviz install is
// needed.
//
//	frame := render.NewFrame(g, snapshot.Edges, snapshot.Accepted, snapshot.Current)
//	svg, err := render.Render(ctx, frame, render.FormatSVG, render.Options{})
//
// A [Renderer] adds a [cache.Cache] in front of Graphviz keyed by the DOT hash.
package render
