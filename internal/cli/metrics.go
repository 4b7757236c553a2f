package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dagopt/pkg/analysis"
)

func newMetricsCmd() *cobra.Command {
	var (
		topK   int
		output string
	)

	cmd := &cobra.Command{
		Use:   "metrics <graph>",
		Short: "Compute the structural metrics report for a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			k := topK
			if k == 0 {
				k = analysis.DefaultTopK
			}
			report, err := analysis.ComputeWith(g, nil, k)
			if err != nil {
				return err
			}

			printStats("graph", report.NumNodes, report.NumEdges)
			printKeyValue("density", fmt.Sprintf("%.4f", report.Density))
			printKeyValue("depth/width", fmt.Sprintf("%d / %d", report.Depth, report.Width))
			printKeyValue("efficiency", fmt.Sprintf("%.3f", report.EfficiencyScore))
			return writeReport(report, output)
		},
	}

	cmd.Flags().IntVar(&topK, "top-k", 0, "bottleneck nodes to report (0 = default)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
