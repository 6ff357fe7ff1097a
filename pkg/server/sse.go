package server

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/kruskalviz/pkg/engine"
)

// writeEvent writes one snapshot as an SSE "snapshot" event. The snapshot's
// sequence number is the event id.
func writeEvent(w io.Writer, snap engine.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: snapshot\ndata: %s\n\n", snap.Seq, data)
	return err
}
