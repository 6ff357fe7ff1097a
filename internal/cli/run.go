package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kruskalviz/pkg/controller"
	"github.com/matzehuels/kruskalviz/pkg/engine"
	"github.com/matzehuels/kruskalviz/pkg/graph"
	"github.com/matzehuels/kruskalviz/pkg/layout"
	"github.com/matzehuels/kruskalviz/pkg/render"
)

// runOpts holds the flags for the run command.
type runOpts struct {
	delay    time.Duration
	headless bool
	start    bool
	output   string
	noCache  bool
}

func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Step through Kruskal's algorithm",
		Long: `Step through Kruskal's algorithm on a graph file, or on a freshly generated
graph when no file is given.

By default an interactive terminal view is shown: s starts, space pauses and
resumes, x stops, r resets, g generates a new graph and +/- change the step
delay. With --headless every step is logged and the resulting tree is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadOrGenerate(args)
			if err != nil {
				return err
			}
			delay := c.cfg.Delay()
			if cmd.Flags().Changed("delay") {
				delay = opts.delay
			}
			ctrl, err := c.newController(cmd.Context(), g, false, controller.WithEngineOptions(engine.WithStepDelay(delay)))
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if opts.headless {
				return c.runHeadless(cmd.Context(), cmd.OutOrStdout(), ctrl, opts)
			}
			return c.runInteractive(cmd.Context(), ctrl, opts.start)
		},
	}

	cmd.Flags().DurationVarP(&opts.delay, "delay", "d", engine.DefaultStepDelay, "pause between inspecting and deciding an edge")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "log each step instead of showing the interactive view")
	cmd.Flags().BoolVar(&opts.start, "start", false, "start the run immediately (interactive view)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "render the final frame to this file (headless; .svg, .png or .dot)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

// loadOrGenerate reads the graph file in args, or generates one from config.
func (c *CLI) loadOrGenerate(args []string) (graph.Graph, error) {
	if len(args) == 1 {
		return graph.ReadFile(args[0])
	}
	return layout.Generate(c.cfg.GenerateOptions())
}

func (c *CLI) runInteractive(ctx context.Context, ctrl *controller.Controller, start bool) error {
	updates, cancel := ctrl.Engine().Subscribe()
	defer cancel()

	p := tea.NewProgram(newRunModel(ctx, ctrl, updates, start), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// runHeadless runs to completion, logging one line per snapshot, then prints
// the tree. Cancelling ctx stops the run.
func (c *CLI) runHeadless(ctx context.Context, w io.Writer, ctrl *controller.Controller, opts runOpts) error {
	updates, cancel := ctrl.Engine().Subscribe()
	defer cancel()

	prog := newProgress(c.Logger)
	h, err := ctrl.Start(ctx)
	if err != nil {
		return err
	}

	final, err := followRun(ctx, c.Logger, updates)
	if err != nil {
		return err
	}
	if !final.Finished {
		return fmt.Errorf("run %s stopped before finishing", h)
	}
	prog.done(fmt.Sprintf("Run finished with %d tree edges", len(final.Accepted)))

	printTree(w, final)

	if opts.output != "" {
		frame, _ := ctrl.View()
		format := formatFromPath(opts.output)
		if err := c.writeFrame(ctx, frame, format, render.Options{Title: "Minimum spanning tree"}, opts.output, opts.noCache); err != nil {
			return err
		}
		printFile(w, opts.output)
	}
	return nil
}

// followRun consumes snapshots until the run finishes or stops.
func followRun(ctx context.Context, logger *log.Logger, updates <-chan engine.Snapshot) (engine.Snapshot, error) {
	for {
		select {
		case <-ctx.Done():
			return engine.Snapshot{}, ctx.Err()
		case s, ok := <-updates:
			if !ok {
				return engine.Snapshot{}, engine.ErrClosed
			}
			switch s.Event {
			case engine.EventInspect, engine.EventAccepted, engine.EventRejected:
				if s.Current == nil {
					continue
				}
				e := *s.Current
				kv := []any{"edge", edgeLabel(e), "weight", e.Weight, "step", fmt.Sprintf("%d/%d", s.Cursor+1, s.Total)}
				if s.Event == engine.EventInspect {
					logger.Debug("inspect", kv...)
				} else {
					logger.Info(string(s.Event), kv...)
				}
			case engine.EventFinished, engine.EventStopped:
				return s, nil
			}
		}
	}
}

// printTree prints the accepted edges as a table.
func printTree(w io.Writer, s engine.Snapshot) {
	rows := make([][]string, 0, len(s.Accepted))
	for i, e := range s.Accepted {
		rows = append(rows, []string{fmt.Sprint(i + 1), s.Log[i], formatWeight(e.Weight)})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Edge", "Weight").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 {
				return headerStyle
			}
			return styleFor(render.StatusAccepted)
		})
	fmt.Fprintln(w, t.Render())
	printKeyValue(w, "Total weight", formatWeight(s.TotalWeight))
}
