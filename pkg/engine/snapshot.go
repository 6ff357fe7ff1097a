package engine

import (
	"fmt"

	"github.com/matzehuels/kruskalviz/pkg/graph"
)

// State is the engine lifecycle state.
type State int

// Engine states.
const (
	Idle State = iota
	Running
	Paused
	Finished
)

var stateNames = [...]string{"idle", "running", "paused", "finished"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// Active reports whether a run is in progress (Running or Paused).
func (s State) Active() bool {
	return s == Running || s == Paused
}

// Event names the transition that produced a snapshot.
type Event string

// Snapshot events.
const (
	EventStarted  Event = "started"
	EventInspect  Event = "inspect"
	EventAccepted Event = "accepted"
	EventRejected Event = "rejected"
	EventAdvanced Event = "advanced"
	EventPaused   Event = "paused"
	EventResumed  Event = "resumed"
	EventFinished Event = "finished"
	EventStopped  Event = "stopped"
)

// RunHandle identifies one run. Commands carrying a handle from an earlier run
// are rejected with ErrStaleHandle.
type RunHandle string

// Snapshot is a read-only copy of the run state. Slices are owned by the
// snapshot and shared between everyone receiving it; do not modify them.
type Snapshot struct {
	Seq    uint64    `json:"seq"`
	Handle RunHandle `json:"handle,omitempty"`
	State  State     `json:"state"`
	Event  Event     `json:"event,omitempty"`

	// Current is the edge under inspection, nil between edges.
	Current *graph.Edge `json:"current,omitempty"`
	// Accepted lists spanning-forest edges in acceptance order.
	Accepted []graph.Edge `json:"accepted"`
	// Log mirrors Accepted as "(from,to)" strings.
	Log []string `json:"log"`
	// Edges is the run's edge list in processing order, with display tags.
	// Cursor indexes the next edge to inspect.
	Edges  []graph.Edge `json:"edges"`
	Cursor int          `json:"cursor"`
	Total  int          `json:"total"`

	Finished    bool    `json:"finished"`
	TotalWeight float64 `json:"total_weight"`
}

// AcceptedIDs returns the set of accepted edge ids.
func (s Snapshot) AcceptedIDs() map[int]bool {
	ids := make(map[int]bool, len(s.Accepted))
	for _, e := range s.Accepted {
		ids[e.ID] = true
	}
	return ids
}

// IsCurrent reports whether id is the edge under inspection.
func (s Snapshot) IsCurrent(id int) bool {
	return s.Current != nil && s.Current.ID == id
}
