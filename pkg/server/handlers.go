package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/kruskalviz/pkg/buildinfo"
	"github.com/matzehuels/kruskalviz/pkg/engine"
	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/graph"
	"github.com/matzehuels/kruskalviz/pkg/layout"
	"github.com/matzehuels/kruskalviz/pkg/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version, "commit": buildinfo.Commit})
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, render.Legend())
}

// =============================================================================
// Graph
// =============================================================================

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Graph())
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Load(r.Body); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.Graph())
}

func (s *Server) handleClearGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Clear(); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type generateRequest struct {
	Nodes      int    `json:"nodes"`
	ExtraEdges int    `json:"extra_edges"`
	Layout     string `json:"layout"`
	MaxWeight  int    `json:"max_weight"`
	Seed       uint64 `json:"seed"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	g, err := s.ctrl.Generate(layout.Options{
		Nodes:      req.Nodes,
		ExtraEdges: req.ExtraEdges,
		Layout:     layout.Kind(req.Layout),
		MaxWeight:  req.MaxWeight,
		Seed:       req.Seed,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Reset(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.Graph())
}

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// mutationResponse reports whether an add was applied. Rejected adds (a node
// too close to another, a duplicate edge) are not errors.
type mutationResponse struct {
	Added bool        `json:"added"`
	Node  *graph.Node `json:"node,omitempty"`
	Edge  *graph.Edge `json:"edge,omitempty"`
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, ok, err := s.ctrl.Editor().AddNode(req.X, req.Y)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, mutationResponse{})
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{Added: true, Node: &n})
}

func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req pointRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.ctrl.Editor().MoveNode(id, req.X, req.Y); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, _ := s.ctrl.Graph().Node(id)
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	removed, err := s.ctrl.Editor().RemoveNode(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed_edges": removed})
}

type edgeRequest struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight float64 `json:"weight"`
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, ok, err := s.ctrl.Editor().AddEdge(req.From, req.To, req.Weight)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, mutationResponse{})
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{Added: true, Edge: &e})
}

func (s *Server) handleRemoveEdge(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.ctrl.Editor().RemoveEdge(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func idParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid id %q", raw)
	}
	return id, nil
}

// =============================================================================
// Runs
// =============================================================================

func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	h, err := s.ctrl.Start(s.runCtx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]engine.RunHandle{"handle": h})
}

func (s *Server) handleCurrentRun(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) handleRunCommand(cmd func(engine.RunHandle) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := engine.RunHandle(chi.URLParam(r, "handle"))
		if err := cmd(h); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	snaps, unsubscribe := s.ctrl.Engine().Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	flush := func() {
		if canFlush {
			flusher.Flush()
		}
	}

	if err := writeEvent(w, s.ctrl.Snapshot()); err != nil {
		return
	}
	flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	for {
		select {
		case snap, ok := <-snaps:
			if !ok {
				return
			}
			if err := writeEvent(w, snap); err != nil {
				return
			}
			flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flush()
		case <-r.Context().Done():
			return
		}
	}
}

// =============================================================================
// Rendering and Config
// =============================================================================

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	opts := render.Options{
		Title:       r.URL.Query().Get("title"),
		HideWeights: r.URL.Query().Get("weights") == "false",
	}
	data, err := s.renderer.Render(r.Context(), s.ctrl.Frame(), format, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Write(data)
}

type stepDelayBody struct {
	StepDelay string `json:"step_delay"`
}

func (s *Server) handleGetStepDelay(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stepDelayBody{StepDelay: s.ctrl.StepDelay().String()})
}

func (s *Server) handleSetStepDelay(w http.ResponseWriter, r *http.Request) {
	var req stepDelayBody
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := time.ParseDuration(req.StepDelay)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "step_delay"))
		return
	}
	if err := s.ctrl.SetStepDelay(d); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stepDelayBody{StepDelay: d.String()})
}

// =============================================================================
// Named Graphs
// =============================================================================

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	names, err := s.ctrl.ListNamed(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"graphs": names})
}

func (s *Server) handleGetNamed(w http.ResponseWriter, r *http.Request) {
	g, err := s.ctrl.Store().Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleSaveNamed(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.ctrl.SaveNamed(r.Context(), name); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"saved": name})
}

func (s *Server) handleLoadNamed(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.LoadNamed(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.Graph())
}

func (s *Server) handleDeleteNamed(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.DeleteNamed(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
