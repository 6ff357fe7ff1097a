// Package graph provides the weighted undirected graph model and its file
// format.
//
// A [Graph] is plain data: a node list (id plus a 2D position used only for
// drawing) and an edge list (id, endpoint pair, weight, optional display
// color). Generators and the editor produce it, the execution engine and the
// renderer consume it.
//
// # File Format
//
// Graphs are stored as JSON with both keys required:
//
//	{
//	  "nodes": [{"id": 0, "x": 120, "y": 80}, {"id": 1, "x": 300, "y": 200}],
//	  "edges": [{"id": 0, "from": 0, "to": 1, "weight": 7}]
//	}
//
// A file missing either key is rejected with an INVALID_GRAPH error and
// nothing is imported. Paths ending in .yaml or .yml use the same structure
// encoded as YAML.
//
// Common operations:
//
//	g, err := graph.ReadFile("graph.json")          // File → Graph (validated)
//	err = graph.WriteFile(g, "out.json", graph.WriteOptions{})
//	data, _ := graph.Marshal(g, graph.WriteOptions{IncludeColors: true})
//
// # Display Colors
//
// The Color field on [Edge] is a presentation tag the engine updates as a side
// effect (for example marking a rejected edge with [ColorExcluded]). It carries
// no algorithmic meaning and is omitted from exports unless
// WriteOptions.IncludeColors is set.
//
// # Concurrency
//
// Graph values are not synchronized. Use [Graph.Clone] before handing a graph
// to another goroutine that may mutate it.
package graph
