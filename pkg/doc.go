// Package pkg provides the core libraries for kruskalviz.
//
// # Overview
//
// Kruskalviz animates Kruskal's minimum spanning tree algorithm over a
// weighted undirected graph, one edge decision at a time. The pkg directory is
// organized into four areas:
//
//  1. Domain: [graph], [unionfind], [layout], [editor]
//  2. Execution: [engine], [controller]
//  3. Output: [render], [server]
//  4. Infrastructure: [store], [cache], [config], [observability], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	graph file / generator / editor
//	         ↓
//	    [controller] (owns the editor and the engine)
//	         ↓
//	    [engine] (timer-driven stepping, snapshots to subscribers)
//	         ↓
//	    [render] frames (DOT, SVG, PNG), TUI, HTTP + SSE
//
// # Quick Start
//
// Generate a graph and run the algorithm to completion:
//
//	import (
//	    "context"
//
//	    "github.com/matzehuels/kruskalviz/pkg/controller"
//	    "github.com/matzehuels/kruskalviz/pkg/engine"
//	    "github.com/matzehuels/kruskalviz/pkg/layout"
//	    "github.com/matzehuels/kruskalviz/pkg/render"
//	)
//
//	g, _ := layout.Generate(layout.DefaultOptions())
//	ctrl := controller.New(g, controller.WithEngineOptions(engine.WithStepDelay(0)))
//	defer ctrl.Close()
//
//	h, _ := ctrl.Start(ctx)
//	snap, _ := ctrl.Engine().Wait(ctx, h)
//	fmt.Println(snap.Log, snap.TotalWeight)
//
//	svg, _ := render.Render(ctx, ctrl.Frame(), render.FormatSVG, render.Options{})
//
// # Main Packages
//
// [graph] - Graph, node and edge types, validation and JSON/YAML files.
//
// [unionfind] - Disjoint sets with path compression.
//
// [layout] - Random connected graph generation with circle, grid and random
// node placement.
//
// [editor] - Interactive graph edits (add, move and remove nodes and edges)
// that refuse changes while a run is active.
//
// [engine] - The stepping state machine: Idle, Running, Paused, Finished.
// Every transition publishes a [engine.Snapshot].
//
// [controller] - The command surface shared by the TUI and the HTTP server.
//
// [render] - Frames to Graphviz DOT, rendered to SVG and PNG through
// go-graphviz, with an artifact cache.
//
// [server] - chi HTTP API with a server-sent event stream of snapshots.
//
// [store] - Named graph persistence: file, Redis and MongoDB backends.
//
// [observability] - Hook interfaces, with a Prometheus implementation in
// observability/prometheus.
//
// # Testing
//
//	go test ./pkg/...
//	KRUSKALVIZ_TEST_REDIS_ADDR=localhost:6379 go test ./pkg/store/...
//	KRUSKALVIZ_TEST_MONGO_URI=mongodb://localhost:27017 go test ./pkg/store/...
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/kruskalviz/pkg/graph
// [unionfind]: https://pkg.go.dev/github.com/matzehuels/kruskalviz/pkg/unionfind
// [layout]: https://pkg.go.dev/github.com/matzehuels/kruskalviz/pkg/layout
// [editor]: https://pkg.go.dev/github.com/matzehuels/kruskalviz/pkg/editor
// [engine]: https://pkg.go.dev/github.com/matzehuels/kruskalviz/pkg/engine
// [controller]: https://pkg.go.dev/github.com/matzehuels/kruskalviz/pkg/controller
// [render]: https://pkg.go.dev/github.com/matzehuels/kruskalviz/pkg/render
// [server]: https://pkg.go.dev/github.com/matzehuels/kruskalviz/pkg/server
// [store]: https://pkg.go.dev/github.com/matzehuels/kruskalviz/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/kruskalviz/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/kruskalviz/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/kruskalviz/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/kruskalviz/pkg/errors
package pkg
