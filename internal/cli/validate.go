package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func validateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the network, build the graph and probability tables, and report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.start(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			brain, err := a.Brain()
			if err != nil {
				return err
			}
			g := brain.Graph()
			edges := 0
			for _, n := range g.Nodes() {
				edges += len(n.ParentIndexes())
			}
			generated := brain.Store().Generated()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Network %q is valid.\n", g.Name())
			fmt.Fprintf(out, "  nodes:     %d\n", g.Len())
			fmt.Fprintf(out, "  edges:     %d\n", edges)
			fmt.Fprintf(out, "  targets:   %s\n", strings.Join(brain.Targets(), ", "))
			fmt.Fprintf(out, "  order:     %s\n", strings.Join(g.TopologicalOrder(), " -> "))
			if len(generated) == 0 {
				fmt.Fprintln(out, "  generated: (none)")
			} else {
				fmt.Fprintf(out, "  generated: %s\n", strings.Join(generated, ", "))
			}
			return nil
		},
	}
}
