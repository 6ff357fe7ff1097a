// Package engine runs Kruskal's minimum spanning tree algorithm one edge at a
// time so a UI can watch it.
//
// # State Machine
//
//	Idle ──Initialize──▶ Running ◀──Resume── Paused
//	                        │    ──Pause──▶    │
//	                        ▼                  │
//	                     Finished              │
//	   Stop (any state) ──▶ Idle ◀─────────────┘
//
// A run walks the input edges in ascending weight order (stable, so equal
// weights keep their input order). Each edge takes two timed steps:
//
//  1. Inspect: the edge becomes Current and a snapshot is emitted.
//  2. Decide, one step delay later: a disjoint-set union over the endpoints.
//     A successful union accepts the edge into the spanning forest; a failed
//     one marks the edge with [graph.ColorExcluded].
//
// The next edge is inspected one step delay after the decision. Disconnected
// graphs are not an error: the run finishes with a spanning forest of
// nodeCount - components edges.
//
// # Pause Semantics
//
// Pausing during the wait between Inspect and Decide cancels the pending
// decision. Resume re-arms the same edge for a full step delay, so every edge
// is decided exactly once regardless of how often the run is paused. Pausing
// between edges resumes by inspecting the next edge immediately.
//
// # Scheduling
//
// No goroutine sleeps. Every pending step is a [time.AfterFunc] continuation
// tagged with a token; Pause, Stop and Close bump the token, so a continuation
// that fires late sees a mismatch and does nothing.
//
// # Observation
//
// Every state change produces a [Snapshot]. Snapshots are queued under the
// engine lock and delivered in order by a single dispatcher goroutine to
// observers registered with [WithObserver] and to channels from
// [Engine.Subscribe]. Observers run outside the engine lock and may call
// back into the engine.
//
//	eng := engine.New(engine.WithStepDelay(500 * time.Millisecond))
//	defer eng.Close()
//	h, err := eng.Initialize(ctx, g)
//	final, err := eng.Wait(ctx, h)
//	fmt.Println(final.Log) // [(0,1) (1,2) (2,3)]
package engine
