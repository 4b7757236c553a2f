package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dagopt/pkg/analysis"
	"github.com/matzehuels/dagopt/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	format    string   // dot, svg, or png; inferred from output extension if empty
	output    string   // output file path (stdout if empty)
	title     string   // diagram title
	highlight bool     // highlight critical and redundant edges
	tagColors []string // tag=color pairs for node fills
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <graph>",
		Short: "Render a graph as DOT, SVG, or PNG",
		Long: `Render draws a graph with Graphviz. The format follows the output file
extension, or --format when writing to stdout.

Examples:
  dagopt render deps.csv -o deps.svg
  dagopt render deps.json -o deps.png --highlight-critical
  dagopt render deps.csv --format dot --tag-color build=lightblue`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			format := opts.format
			if format == "" {
				format = formatFromPath(opts.output)
			}
			if format == "" {
				format = "dot"
			}

			renderOpts := render.Options{
				Title:             opts.title,
				HighlightCritical: opts.highlight,
				TagColors:         parseTagColors(opts.tagColors),
			}
			if opts.highlight {
				report, err := analysis.EdgeCriticality(g, nil)
				if err != nil {
					return err
				}
				renderOpts.Critical = report.Critical
				renderOpts.Redundant = report.Redundant
			}

			dot := render.ToDOT(g, renderOpts)
			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = render.RenderSVG(ctx, dot)
			case "png":
				data, err = render.RenderPNG(ctx, dot)
			default:
				return fmt.Errorf("unknown format %q (use dot, svg, or png)", format)
			}
			if err != nil {
				return err
			}

			if opts.output == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0644); err != nil {
				return err
			}
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "output format: dot, svg, or png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.title, "title", "", "diagram title")
	cmd.Flags().BoolVar(&opts.highlight, "highlight-critical", false, "highlight critical edges red and redundant edges dashed")
	cmd.Flags().StringArrayVar(&opts.tagColors, "tag-color", nil, "tag=color node fill, repeatable")
	return cmd
}

// parseTagColors turns repeated tag=color flags into a lookup map.
// Malformed pairs are skipped.
func parseTagColors(pairs []string) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	colors := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		tag, color, ok := strings.Cut(pair, "=")
		if ok && tag != "" && color != "" {
			colors[tag] = color
		}
	}
	return colors
}
