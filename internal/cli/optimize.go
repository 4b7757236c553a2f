package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dagopt/pkg/dag/transform"
	"github.com/matzehuels/dagopt/pkg/optimizer"
	"github.com/matzehuels/dagopt/pkg/store"
)

// optimizeOpts holds the command-line flags for the optimize command.
type optimizeOpts struct {
	reduce  bool   // apply transitive reduction
	merge   bool   // merge equivalent nodes
	onCycle string // fail or remove
	method  string // auto, dfs, or closure
	topK    int    // bottleneck list size
	output  string // output file path (stdout if empty)
	save    bool   // persist the run to the configured store
	label   string // label for the saved run
}

// strategy resolves the --method flag; auto uses the density policy with
// the configured threshold (zero keeps the built-in default).
func (o *optimizeOpts) strategy(threshold float64) (transform.Strategy, error) {
	switch o.method {
	case "auto", "":
		return transform.DensityStrategy{Threshold: threshold}, nil
	case string(transform.MethodDFS), string(transform.MethodClosure):
		return transform.FixedStrategy{Variant: transform.Method(o.method)}, nil
	default:
		return nil, fmt.Errorf("unknown method %q (use auto, dfs, or closure)", o.method)
	}
}

func newOptimizeCmd(configPath *string) *cobra.Command {
	opts := optimizeOpts{reduce: true, onCycle: "fail", method: "auto"}

	cmd := &cobra.Command{
		Use:   "optimize <graph>",
		Short: "Rewrite a graph into a leaner equivalent",
		Long: `Optimize applies transitive reduction and optional node merging to a
dependency graph and reports before/after metrics.

The input is a CSV edge list (source,target[,classes]) or a JSON graph
document; "-" reads stdin. The result is written as JSON.

Examples:
  dagopt optimize deps.csv
  dagopt optimize deps.json --merge -o result.json
  dagopt optimize deps.csv --on-cycle remove --method closure
  cat deps.csv | dagopt optimize - --save --label nightly`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			strategy, err := opts.strategy(cfg.Engine.DensityThreshold)
			if err != nil {
				return err
			}
			topK := opts.topK
			if topK == 0 {
				topK = cfg.Engine.TopK
			}

			prog := newProgress(logger)
			result, err := optimizer.FromDAG(g).Optimize(ctx, optimizer.Options{
				ApplyTransitiveReduction: opts.reduce,
				MergeEquivalentNodes:     opts.merge,
				OnCycle:                  optimizer.OnCycle(opts.onCycle),
				Strategy:                 strategy,
				TopK:                     topK,
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Optimized %d nodes with %d edges", g.NodeCount(), g.EdgeCount()))

			for _, w := range result.Warnings {
				printWarning("%s", w)
			}
			printStats("before", result.MetricsBefore.NumNodes, result.MetricsBefore.NumEdges)
			printStats("after", result.MetricsAfter.NumNodes, result.MetricsAfter.NumEdges)
			if result.Method != "" {
				printKeyValue("method", result.Method)
			}
			printKeyValue("efficiency", fmt.Sprintf("%.3f %s %.3f",
				result.MetricsBefore.EfficiencyScore, iconArrow, result.MetricsAfter.EfficiencyScore))

			if opts.save {
				runs, err := newStore(ctx, cfg)
				if err != nil {
					return err
				}
				if runs == nil {
					return fmt.Errorf("run store is disabled in the configuration")
				}
				defer runs.Close(ctx)

				run := store.NewRun(opts.label, result)
				if err := runs.Save(ctx, run); err != nil {
					return err
				}
				printSuccess("Saved run %s", run.ID)
			}

			return writeReport(result, opts.output)
		},
	}

	cmd.Flags().BoolVar(&opts.reduce, "reduce", opts.reduce, "apply transitive reduction")
	cmd.Flags().BoolVar(&opts.merge, "merge", false, "merge structurally equivalent nodes")
	cmd.Flags().StringVar(&opts.onCycle, "on-cycle", opts.onCycle, "cyclic input handling: fail or remove")
	cmd.Flags().StringVar(&opts.method, "method", opts.method, "reduction variant: auto, dfs, or closure")
	cmd.Flags().IntVar(&opts.topK, "top-k", 0, "bottleneck nodes to report (0 = default)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist the run to the configured store")
	cmd.Flags().StringVar(&opts.label, "label", "", "label for the saved run")

	return cmd
}
