package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kruskalviz/pkg/editor"
	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/graph"
)

// editCommand groups the graph file mutations. Each subcommand reads the
// file, applies one edit and writes it back in the same format.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit nodes and edges of a graph file",
	}

	cmd.AddCommand(c.editSubcommand("add-node <file> <x> <y>", "Add a node at canvas coordinates", 3, func(cmd *cobra.Command, ed *editor.Editor, args []string) error {
		xy, err := parseFloats(args, "x", "y")
		if err != nil {
			return err
		}
		n, ok, err := ed.AddNode(xy[0], xy[1])
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "(%s, %s) is too close to an existing node", args[0], args[1])
		}
		printSuccess(cmd.OutOrStdout(), "Added node %d", n.ID)
		return nil
	}))

	cmd.AddCommand(c.editSubcommand("add-edge <file> <from> <to> <weight>", "Connect two nodes", 4, func(cmd *cobra.Command, ed *editor.Editor, args []string) error {
		ids, err := parseInts(args[:2], "from", "to")
		if err != nil {
			return err
		}
		w, err := parseFloats(args[2:], "weight")
		if err != nil {
			return err
		}
		e, ok, err := ed.AddEdge(ids[0], ids[1], w[0])
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "nodes %d and %d are the same or already connected", ids[0], ids[1])
		}
		printSuccess(cmd.OutOrStdout(), "Added edge %d (%s, weight %s)", e.ID, edgeLabel(e), formatWeight(e.Weight))
		return nil
	}))

	cmd.AddCommand(c.editSubcommand("remove-node <file> <id>", "Remove a node and its edges", 2, func(cmd *cobra.Command, ed *editor.Editor, args []string) error {
		ids, err := parseInts(args, "id")
		if err != nil {
			return err
		}
		removed, err := ed.RemoveNode(ids[0])
		if err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Removed node %d and %d edges", ids[0], removed)
		return nil
	}))

	cmd.AddCommand(c.editSubcommand("remove-edge <file> <id>", "Remove an edge", 2, func(cmd *cobra.Command, ed *editor.Editor, args []string) error {
		ids, err := parseInts(args, "id")
		if err != nil {
			return err
		}
		if err := ed.RemoveEdge(ids[0]); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Removed edge %d", ids[0])
		return nil
	}))

	cmd.AddCommand(c.editSubcommand("move-node <file> <id> <x> <y>", "Move a node", 4, func(cmd *cobra.Command, ed *editor.Editor, args []string) error {
		ids, err := parseInts(args[:1], "id")
		if err != nil {
			return err
		}
		xy, err := parseFloats(args[1:], "x", "y")
		if err != nil {
			return err
		}
		if err := ed.MoveNode(ids[0], xy[0], xy[1]); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Moved node %d", ids[0])
		return nil
	}))

	cmd.AddCommand(c.editShowCommand())

	return cmd
}

type editFunc func(cmd *cobra.Command, ed *editor.Editor, args []string) error

// editSubcommand wraps fn with reading and writing the graph file. fn gets
// the arguments after the file name.
func (c *CLI) editSubcommand(use, short string, nargs int, fn editFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			g, err := graph.ReadFile(path)
			if err != nil {
				return err
			}
			ed := editor.New(g)
			if err := fn(cmd, ed, args[1:]); err != nil {
				return err
			}
			out := ed.Graph()
			loggerFromContext(cmd.Context()).Debug("writing graph", "path", path, "nodes", len(out.Nodes), "edges", len(out.Edges))
			return graph.WriteFile(out, path, graph.WriteOptions{})
		},
	}
}

func (c *CLI) editShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "List the nodes and edges of a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadFile(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, StyleTitle.Render("Nodes"))
			for _, n := range g.Nodes {
				printKeyValue(w, strconv.Itoa(n.ID), fmt.Sprintf("(%s, %s)", formatWeight(n.X), formatWeight(n.Y)))
			}
			fmt.Fprintln(w, StyleTitle.Render("Edges"))
			for _, e := range g.Edges {
				printKeyValue(w, strconv.Itoa(e.ID), fmt.Sprintf("%s  weight %s", edgeLabel(e), formatWeight(e.Weight)))
			}
			if comps := g.Components(); comps > 1 {
				printWarning(w, "graph has %d components; the result will be a spanning forest", comps)
			}
			return nil
		},
	}
}

func parseInts(args []string, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, args[i])
		}
		out[i] = v
	}
	return out, nil
}

func parseFloats(args []string, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", name, args[i])
		}
		out[i] = v
	}
	return out, nil
}
