package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kruskalviz/pkg/controller"
	"github.com/matzehuels/kruskalviz/pkg/engine"
	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/graph"
	"github.com/matzehuels/kruskalviz/pkg/render"
)

// renderOpts holds the flags for the render command.
type renderOpts struct {
	output    string
	format    string
	mst       bool
	title     string
	noWeights bool
	noCache   bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a graph to SVG, PNG or DOT",
		Long: `Render a graph file with Graphviz. With --mst the algorithm is run to
completion first and the frame shows the minimum spanning tree and the
excluded edges.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <input>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, dot")
	cmd.Flags().BoolVar(&opts.mst, "mst", false, "run the algorithm and draw the finished tree")
	cmd.Flags().StringVar(&opts.title, "title", "", "title drawn above the graph")
	cmd.Flags().BoolVar(&opts.noWeights, "no-weights", false, "hide edge weight labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	format, output, err := resolveOutput(input, opts.output, opts.format)
	if err != nil {
		return err
	}

	g, err := graph.ReadFile(input)
	if err != nil {
		return err
	}

	frame := render.NewFrame(g, nil, nil, nil)
	if opts.mst {
		if frame, err = c.solve(ctx, g); err != nil {
			return err
		}
	}

	out := cmd.ErrOrStderr()
	spinner := newSpinner(ctx, out, fmt.Sprintf("Rendering %s...", filepath.Base(output)))
	spinner.Start()
	err = c.writeFrame(ctx, frame, format, render.Options{Title: opts.title, HideWeights: opts.noWeights}, output, opts.noCache)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.StopWithSuccess("Rendered " + format)
	printGraphStats(out, len(frame.Nodes), len(frame.Edges))
	printFile(out, output)
	return nil
}

// solve runs the algorithm over g without delay and returns the final frame.
func (c *CLI) solve(ctx context.Context, g graph.Graph) (render.Frame, error) {
	ctrl, err := c.newController(ctx, g, false, controller.WithEngineOptions(engine.WithStepDelay(0)))
	if err != nil {
		return render.Frame{}, err
	}
	defer ctrl.Close()

	h, err := ctrl.Start(ctx)
	if err != nil {
		return render.Frame{}, err
	}
	snap, err := ctrl.Engine().Wait(ctx, h)
	if err != nil {
		return render.Frame{}, err
	}
	c.Logger.Debug("solved", "tree_edges", len(snap.Accepted), "weight", snap.TotalWeight)
	return ctrl.Frame(), nil
}

// writeFrame renders through the cached renderer and writes the result.
func (c *CLI) writeFrame(ctx context.Context, f render.Frame, format string, opts render.Options, path string, noCache bool) error {
	data, err := c.newRenderer(noCache).Render(ctx, f, format, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// resolveOutput settles the format and output path. An explicit format wins;
// otherwise the output extension decides, defaulting to svg.
func resolveOutput(input, output, format string) (string, string, error) {
	if format == "" {
		format = render.FormatSVG
		if output != "" {
			format = formatFromPath(output)
		}
	}
	if err := render.ValidateFormat(format); err != nil {
		return "", "", err
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if output == input {
		return "", "", errors.New(errors.ErrCodeInvalidInput, "output %s would overwrite the input", output)
	}
	return format, output, nil
}

// formatFromPath maps a file extension to a render format, defaulting to svg.
func formatFromPath(path string) string {
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext {
	case render.FormatPNG, render.FormatDOT:
		return ext
	case "gv":
		return render.FormatDOT
	default:
		return render.FormatSVG
	}
}
