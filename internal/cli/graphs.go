package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kruskalviz/pkg/graph"
	"github.com/matzehuels/kruskalviz/pkg/store"
)

// graphsCommand manages named graphs in the configured store.
func (c *CLI) graphsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphs",
		Short: "Manage named graphs in the store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored graph names",
		Args:  cobra.NoArgs,
		RunE: c.withStore(func(cmd *cobra.Command, s store.Store, args []string) error {
			names, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(names) == 0 {
				printInfo(w, "No stored graphs")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(w, name)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save <name> <file>",
		Short: "Store a graph file under a name",
		Args:  cobra.ExactArgs(2),
		RunE: c.withStore(func(cmd *cobra.Command, s store.Store, args []string) error {
			g, err := graph.ReadFile(args[1])
			if err != nil {
				return err
			}
			if err := s.Save(cmd.Context(), args[0], g); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Saved %s", args[0])
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "load <name> [file]",
		Short: "Write a stored graph to a file or stdout",
		Args:  cobra.RangeArgs(1, 2),
		RunE: c.withStore(func(cmd *cobra.Command, s store.Store, args []string) error {
			g, err := s.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return graph.Write(g, cmd.OutOrStdout(), graph.WriteOptions{})
			}
			if err := graph.WriteFile(g, args[1], graph.WriteOptions{}); err != nil {
				return err
			}
			printFile(cmd.OutOrStdout(), args[1])
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored graph",
		Args:  cobra.ExactArgs(1),
		RunE: c.withStore(func(cmd *cobra.Command, s store.Store, args []string) error {
			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted %s", args[0])
			return nil
		}),
	})

	return cmd
}

// withStore opens the configured store around fn.
func (c *CLI) withStore(fn func(cmd *cobra.Command, s store.Store, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := c.openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, s, args)
	}
}
