// Package render turns graphs into Graphviz DOT and rasterized images.
// The CLI writes before/after diagrams side by side so a rewrite can be
// inspected visually; the server caches the rendered bytes keyed by the
// graph content hash.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dagopt/pkg/dag"
	"github.com/matzehuels/dagopt/pkg/errors"
)

// Options configures diagram rendering.
type Options struct {
	// Title is drawn above the graph; empty means no title.
	Title string

	// HighlightCritical draws critical edges bold red and redundant edges
	// dashed grey. The sets come from the criticality report; edges in
	// neither set render with default styling.
	HighlightCritical bool

	// Critical and Redundant partition the edges when HighlightCritical
	// is set.
	Critical  []dag.Edge
	Redundant []dag.Edge

	// TagColors fills nodes by their incident edges' first tag. Nodes
	// without a tagged edge stay white.
	TagColors map[string]string
}

// ToDOT converts a graph to Graphviz DOT. Nodes keep their insertion
// order so repeated renders of the same graph produce identical output.
func ToDOT(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=18;\n", opts.Title)
	}
	buf.WriteString("\n")

	nodeColors := tagFills(g, opts.TagColors)
	for _, id := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", id)}
		if color, ok := nodeColors[id]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", color))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	redundant := edgeSet(opts.Redundant)
	critical := edgeSet(opts.Critical)

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		key := [2]string{e.From, e.To}
		switch {
		case opts.HighlightCritical && redundant[key]:
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey];\n", e.From, e.To)
		case opts.HighlightCritical && critical[key]:
			fmt.Fprintf(&buf, "  %q -> %q [color=red, penwidth=2];\n", e.From, e.To)
		default:
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

// tagFills assigns each node the color of the first tagged edge touching
// it, walking edges in insertion order.
func tagFills(g *dag.DAG, colors map[string]string) map[string]string {
	if len(colors) == 0 {
		return nil
	}
	fills := make(map[string]string)
	for _, e := range g.Edges() {
		for _, tag := range e.Tags {
			color, ok := colors[tag]
			if !ok {
				continue
			}
			for _, id := range []string{e.From, e.To} {
				if _, done := fills[id]; !done {
					fills[id] = color
				}
			}
		}
	}
	return fills
}

func edgeSet(edges []dag.Edge) map[[2]string]bool {
	set := make(map[[2]string]bool, len(edges))
	for _, e := range edges {
		set[[2]string{e.From, e.To}] = true
	}
	return set
}
