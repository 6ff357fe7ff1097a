// Package cli implements the kruskalviz command-line interface.
//
// Commands:
//   - generate: write a random connected graph file
//   - run: step through Kruskal's algorithm in a terminal UI (or --headless)
//   - render: draw a graph file, optionally with its minimum spanning tree
//   - edit: add, move and remove nodes and edges in a graph file
//   - serve: expose the visualizer over HTTP
//   - graphs: manage named graphs in the configured store
//   - config, cache, completion: housekeeping
//
// All commands support --verbose (-v) for debug-level logging and --config to
// point at a TOML file other than the default.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kruskalviz/pkg/buildinfo"
	"github.com/matzehuels/kruskalviz/pkg/cache"
	"github.com/matzehuels/kruskalviz/pkg/config"
	"github.com/matzehuels/kruskalviz/pkg/controller"
	"github.com/matzehuels/kruskalviz/pkg/engine"
	"github.com/matzehuels/kruskalviz/pkg/graph"
	"github.com/matzehuels/kruskalviz/pkg/render"
	"github.com/matzehuels/kruskalviz/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "kruskalviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Kruskalviz steps through Kruskal's minimum spanning tree algorithm",
		Long:         `Kruskalviz generates or edits weighted undirected graphs and animates Kruskal's algorithm over them, one edge at a time, in the terminal, as rendered images, or over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/kruskalviz/config.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.graphsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// newController builds a controller over g wired to the configured store.
func (c *CLI) newController(ctx context.Context, g graph.Graph, withStore bool, opts ...controller.Option) (*controller.Controller, error) {
	base := []controller.Option{
		controller.WithLogger(c.Logger),
		controller.WithGenerateOptions(c.cfg.GenerateOptions()),
		controller.WithEngineOptions(engine.WithStepDelay(c.cfg.Delay())),
	}
	if withStore {
		s, err := c.openStore(ctx)
		if err != nil {
			return nil, err
		}
		base = append(base, controller.WithStore(s))
	}
	return controller.New(g, append(base, opts...)...), nil
}

func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	s, err := c.cfg.Store.Open(ctx)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("store opened", "backend", c.cfg.Store.Backend)
	return s, nil
}

// newRenderer builds a renderer backed by the artifact cache. Keys are scoped
// by release so a renderer upgrade never serves stale pictures.
func (c *CLI) newRenderer(noCache bool) *render.Renderer {
	cc, err := c.newCache(noCache)
	if err != nil {
		c.Logger.Warn("render cache unavailable", "err", err)
		cc = cache.NewNullCache()
	}
	return render.NewRenderer(
		render.WithCache(cc),
		render.WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")),
		render.WithTTL(c.cfg.Cache.TTL.Duration()),
	)
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir := c.cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/kruskalviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
