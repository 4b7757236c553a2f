package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dagopt/pkg/gen"
	"github.com/matzehuels/dagopt/pkg/graph"
)

func newGenerateCmd() *cobra.Command {
	var (
		params gen.Params
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random acyclic graph",
		Long: `Generate produces a random acyclic graph as a JSON document, useful for
demos and for benchmarking the optimizer. The same seed always produces
the same graph.

Examples:
  dagopt generate --nodes 50 --edge-prob 0.1 -o demo.json
  dagopt generate --nodes 200 --edge-prob 0.05 --connected | dagopt optimize -`,
		RunE: func(c *cobra.Command, args []string) error {
			g, err := gen.Random(params)
			if err != nil {
				return err
			}
			printStats("generated", g.NodeCount(), g.EdgeCount())
			return writeReport(graph.FromDAG(g), output)
		},
	}

	cmd.Flags().IntVar(&params.Nodes, "nodes", 20, "node count")
	cmd.Flags().Float64Var(&params.EdgeProb, "edge-prob", 0.15, "forward edge probability")
	cmd.Flags().Int64Var(&params.Seed, "seed", 0, "random seed")
	cmd.Flags().BoolVar(&params.Connected, "connected", false, "guarantee a single weak component")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
