package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dagopt/pkg/optimizer"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run scheduling and structure analyses on a graph",
		Long: `Analyze answers questions about a graph without modifying it.

Examples:
  dagopt analyze critical-path deps.csv --durations times.json
  dagopt analyze layers deps.json
  dagopt analyze criticality deps.csv -o report.json`,
	}

	cmd.AddCommand(newCriticalPathCmd())
	cmd.AddCommand(newLayersCmd())
	cmd.AddCommand(newCriticalityCmd())
	return cmd
}

func newCriticalPathCmd() *cobra.Command {
	var (
		durationsPath string
		output        string
	)

	cmd := &cobra.Command{
		Use:   "critical-path <graph>",
		Short: "Compute the PERT/CPM critical path and slack",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			durations, err := loadDurations(durationsPath)
			if err != nil {
				return err
			}

			report, err := optimizer.FromDAG(g).CriticalPath(durations)
			if err != nil {
				return err
			}

			printKeyValue("makespan", fmt.Sprintf("%g", report.Makespan))
			printKeyValue("critical path", strings.Join(report.Path, " "+iconArrow+" "))
			return writeReport(report, output)
		},
	}

	cmd.Flags().StringVar(&durationsPath, "durations", "", "JSON file mapping node IDs to task durations (default: every task takes 1)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func newLayersCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layers <graph>",
		Short: "Decompose a graph into parallel execution layers",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			report, err := optimizer.FromDAG(g).Layers()
			if err != nil {
				return err
			}

			printKeyValue("depth", fmt.Sprintf("%d", report.Depth))
			printKeyValue("width", fmt.Sprintf("%d", report.Width))
			printKeyValue("parallelism", fmt.Sprintf("%.3f", report.Parallelism))
			return writeReport(report, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func newCriticalityCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "criticality <graph>",
		Short: "Partition edges into critical and redundant",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			report, err := optimizer.FromDAG(g).EdgeCriticality()
			if err != nil {
				return err
			}

			printKeyValue("critical", fmt.Sprintf("%d", len(report.Critical)))
			printKeyValue("redundant", fmt.Sprintf("%d", len(report.Redundant)))
			printKeyValue("ratio", fmt.Sprintf("%.3f", report.Ratio))
			return writeReport(report, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
