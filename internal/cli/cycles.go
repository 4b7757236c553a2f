package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dagopt/pkg/dag/transform"
	"github.com/matzehuels/dagopt/pkg/graph"
)

func newCyclesCmd() *cobra.Command {
	var (
		remove bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "cycles <graph>",
		Short: "Detect cycles, optionally cutting them",
		Long: `Cycles lists every cycle in the input graph. With --remove, back edges
are cut deterministically and the acyclic graph is written as JSON.

Examples:
  dagopt cycles deps.csv
  dagopt cycles deps.csv --remove -o clean.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			cycles := transform.DetectCycles(g)
			if len(cycles) == 0 {
				printSuccess("Graph is acyclic (%d nodes, %d edges)", g.NodeCount(), g.EdgeCount())
				if remove {
					return writeReport(graph.FromDAG(g), output)
				}
				return nil
			}

			printHeading("%d cycle(s) found", len(cycles))
			for _, cycle := range cycles {
				printCycle(cycle)
			}

			if !remove {
				return fmt.Errorf("graph contains %d cycle(s)", len(cycles))
			}

			cleaned, removed := transform.RemoveCycles(g)
			for _, e := range removed {
				printWarning("cut %s %s %s", e.From, iconArrow, e.To)
			}
			printSuccess("Removed %d edge(s)", len(removed))
			return writeReport(graph.FromDAG(cleaned), output)
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "cut back edges and write the acyclic graph")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
