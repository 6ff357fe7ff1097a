package cli

import (
	"fmt"
	"net"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kruskalviz/pkg/observability"
	"github.com/matzehuels/kruskalviz/pkg/observability/prometheus"
	"github.com/matzehuels/kruskalviz/pkg/server"
)

type serveOpts struct {
	addr      string
	graph     string
	noMetrics bool
	noCache   bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the visualizer over HTTP",
		Long: `Serve the editor, the run controls, rendered frames and a server-sent event
stream of run snapshots over HTTP. Named graphs go to the configured store.
Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVarP(&opts.graph, "graph", "g", "", "graph file to start with (default: generated)")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()

	var args []string
	if opts.graph != "" {
		args = []string{opts.graph}
	}
	g, err := c.loadOrGenerate(args)
	if err != nil {
		return err
	}

	ctrl, err := c.newController(ctx, g, true)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	srvOpts := []server.Option{
		server.WithLogger(c.Logger),
		server.WithRenderer(c.newRenderer(opts.noCache)),
		server.WithRunContext(ctx),
	}
	if !opts.noMetrics {
		reg := prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prometheus.New(reg).Install()
		defer observability.Reset()
		srvOpts = append(srvOpts, server.WithGatherer(reg))
	}

	addr := opts.addr
	if addr == "" {
		addr = c.cfg.Server.Addr
	}
	out := cmd.ErrOrStderr()
	return server.New(ctrl, srvOpts...).ListenAndServe(ctx, addr, func(a net.Addr) {
		printSuccess(out, "Serving on %s", StyleValue.Render(fmt.Sprintf("http://%s", a)))
		printDetail(out, "store: %s", c.cfg.Store.Backend)
	})
}
