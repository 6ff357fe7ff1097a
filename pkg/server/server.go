// Package server exposes a [controller.Controller] over HTTP.
//
// The API mirrors the interactive controls: graph editing under /graph, run
// lifecycle under /runs, live snapshots as Server-Sent Events on
// /runs/events, rendered frames on /render.{format} and named graphs under
// /graphs. Errors are JSON objects {"code", "message"} with a status derived
// from the error code.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/kruskalviz/pkg/controller"
	"github.com/matzehuels/kruskalviz/pkg/render"
)

// heartbeatInterval keeps idle event streams open through proxies.
const heartbeatInterval = 15 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRenderer sets the frame renderer. The default renders without a cache.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithGatherer exposes g on /metrics.
func WithGatherer(g prom.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithRunContext sets the context runs started over HTTP inherit. Runs must
// outlive the request that started them; cancelling ctx stops them.
func WithRunContext(ctx context.Context) Option {
	return func(s *Server) { s.runCtx = ctx }
}

// Server is an http.Handler serving the visualizer API.
type Server struct {
	ctrl     *controller.Controller
	logger   *log.Logger
	renderer *render.Renderer
	gatherer prom.Gatherer
	runCtx   context.Context
	router   chi.Router
}

// New creates a Server with all routes configured.
func New(ctrl *controller.Controller, opts ...Option) *Server {
	s := &Server{
		ctrl:     ctrl,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		renderer: render.NewRenderer(),
		runCtx:   context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/legend", s.handleLegend)

	// Graph under edit
	r.Get("/graph", s.handleGetGraph)
	r.Put("/graph", s.handlePutGraph)
	r.Delete("/graph", s.handleClearGraph)
	r.Post("/graph/generate", s.handleGenerate)
	r.Post("/graph/reset", s.handleReset)
	r.Post("/graph/nodes", s.handleAddNode)
	r.Patch("/graph/nodes/{id}", s.handleMoveNode)
	r.Delete("/graph/nodes/{id}", s.handleRemoveNode)
	r.Post("/graph/edges", s.handleAddEdge)
	r.Delete("/graph/edges/{id}", s.handleRemoveEdge)

	// Runs
	r.Post("/runs", s.handleStartRun)
	r.Get("/runs/current", s.handleCurrentRun)
	r.Get("/runs/events", s.handleEvents)
	r.Post("/runs/{handle}/pause", s.handleRunCommand(s.ctrl.Engine().Pause))
	r.Post("/runs/{handle}/resume", s.handleRunCommand(s.ctrl.Engine().Resume))
	r.Post("/runs/{handle}/stop", s.handleRunCommand(s.ctrl.Engine().Stop))

	r.Get("/render.{format}", s.handleRender)

	r.Get("/config/step-delay", s.handleGetStepDelay)
	r.Put("/config/step-delay", s.handleSetStepDelay)

	// Named graphs
	r.Get("/graphs", s.handleListGraphs)
	r.Get("/graphs/{name}", s.handleGetNamed)
	r.Put("/graphs/{name}", s.handleSaveNamed)
	r.Post("/graphs/{name}/load", s.handleLoadNamed)
	r.Delete("/graphs/{name}", s.handleDeleteNamed)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. The bound address is reported through ready when non-nil.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())
	if ready != nil {
		ready(ln.Addr())
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
