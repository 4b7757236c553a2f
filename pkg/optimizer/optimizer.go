// Package optimizer is the facade over the engine: it accepts plain edge
// records, builds the in-memory model once, and exposes the independent
// operations (validate, optimize, critical path, layers, edge
// criticality, metrics) that the CLI and the HTTP API call. Structural
// transforms always return new graphs; the facade never chains them
// implicitly.
package optimizer

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dagopt/pkg/analysis"
	"github.com/matzehuels/dagopt/pkg/dag"
	"github.com/matzehuels/dagopt/pkg/dag/reach"
	"github.com/matzehuels/dagopt/pkg/dag/transform"
	"github.com/matzehuels/dagopt/pkg/errors"
	"github.com/matzehuels/dagopt/pkg/graph"
	"github.com/matzehuels/dagopt/pkg/observability"
)

// OnCycle selects how Optimize reacts to a cyclic input graph.
type OnCycle string

const (
	// OnCycleFail aborts with ErrCodeCyclicGraph and the detected cycles.
	OnCycleFail OnCycle = "fail"

	// OnCycleRemove deterministically cuts back edges until the graph is
	// acyclic and records a warning with the removed edges.
	OnCycleRemove OnCycle = "remove"
)

// Options control one Optimize run.
type Options struct {
	ApplyTransitiveReduction bool
	MergeEquivalentNodes     bool

	// OnCycle defaults to OnCycleFail.
	OnCycle OnCycle

	// Strategy overrides the reduction variant selection; nil uses the
	// density default.
	Strategy transform.Strategy

	// TopK bounds the bottleneck list in the metric reports; 0 uses
	// the analysis default.
	TopK int
}

// Result carries everything one Optimize run produced. Before reflects
// the graph after cycle handling but before any structural transform, so
// the two metric reports compare like for like.
type Result struct {
	Before *graph.Document `json:"graph_before" bson:"graph_before"`
	After  *graph.Document `json:"graph_after" bson:"graph_after"`

	MetricsBefore *analysis.Report `json:"metrics_before" bson:"metrics_before"`
	MetricsAfter  *analysis.Report `json:"metrics_after" bson:"metrics_after"`

	// Method names the reduction variant that ran; empty when reduction
	// was not requested.
	Method string `json:"method_used,omitempty" bson:"method_used,omitempty"`

	// Cycles lists the cycles found in the input, if any.
	Cycles [][]string `json:"cycles,omitempty" bson:"cycles,omitempty"`

	// RemovedCycleEdges lists edges cut by cycle removal.
	RemovedCycleEdges []graph.EdgeRecord `json:"removed_cycle_edges,omitempty" bson:"removed_cycle_edges,omitempty"`

	// Warnings are non-fatal conditions the caller should surface, such
	// as the graph having been altered by cycle removal.
	Warnings []string `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// ValidationReport is the non-mutating shape check of the input.
type ValidationReport struct {
	NodeCount      int        `json:"node_count" bson:"node_count"`
	EdgeCount      int        `json:"edge_count" bson:"edge_count"`
	ComponentCount int        `json:"component_count" bson:"component_count"`
	Acyclic        bool       `json:"acyclic" bson:"acyclic"`
	Cycles         [][]string `json:"cycles,omitempty" bson:"cycles,omitempty"`
}

// Optimizer owns one graph and answers questions about it. It is cheap
// to construct and holds no state besides the graph itself; every
// operation recomputes from scratch.
type Optimizer struct {
	g *dag.DAG
}

// New builds an Optimizer from edge records. Node ordering follows first
// appearance in the records, which fixes every downstream tie-break.
func New(records []graph.EdgeRecord) (*Optimizer, error) {
	g, err := graph.FromRecords(records)
	if err != nil {
		return nil, err
	}
	return &Optimizer{g: g}, nil
}

// FromDAG wraps an existing graph. The Optimizer does not copy it, so
// the caller must not mutate the graph afterwards.
func FromDAG(g *dag.DAG) *Optimizer {
	return &Optimizer{g: g}
}

// Graph returns the underlying model. Treat it as read-only.
func (o *Optimizer) Graph() *dag.DAG { return o.g }

// Validate reports node, edge, and weak-component counts plus the cycle
// situation. It never mutates the graph.
func (o *Optimizer) Validate() (*ValidationReport, error) {
	if o.g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGraph, "graph has no nodes")
	}
	cycles := transform.DetectCycles(o.g)
	return &ValidationReport{
		NodeCount:      o.g.NodeCount(),
		EdgeCount:      o.g.EdgeCount(),
		ComponentCount: o.g.WeakComponentCount(),
		Acyclic:        len(cycles) == 0,
		Cycles:         cycles,
	}, nil
}

// Optimize runs the requested structural transforms and returns the
// before/after graphs with their metric reports. The input graph is
// never mutated; callers compare the two reports to judge the rewrite.
func (o *Optimizer) Optimize(ctx context.Context, opts Options) (*Result, error) {
	if o.g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGraph, "graph has no nodes")
	}

	result := &Result{}
	working := o.g

	if cycles := transform.DetectCycles(working); len(cycles) > 0 {
		result.Cycles = cycles
		mode := opts.OnCycle
		if mode == "" {
			mode = OnCycleFail
		}
		if mode != OnCycleRemove {
			return nil, coded(&dag.CycleError{Cycles: cycles})
		}

		cleaned, removed := transform.RemoveCycles(working)
		working = cleaned
		for _, e := range removed {
			result.RemovedCycleEdges = append(result.RemovedCycleEdges,
				graph.EdgeRecord{Source: e.From, Target: e.To, Tags: e.Tags})
		}
		result.Warnings = append(result.Warnings,
			"input graph was cyclic; back edges were removed before optimization")
		log.Warn("removed cycles from input graph", "cycles", len(cycles), "edges", len(removed))
	}

	topK := opts.TopK
	if topK == 0 {
		topK = analysis.DefaultTopK
	}

	// One closure serves the before-metrics and, if selected, the dense
	// reduction variant.
	closure := reach.Closure(working)

	mstart := time.Now()
	observability.Engine().OnMetricsStart(ctx, working.NodeCount(), working.EdgeCount())
	before, err := analysis.ComputeWith(working, closure, topK)
	observability.Engine().OnMetricsComplete(ctx, time.Since(mstart), err)
	if err != nil {
		return nil, coded(err)
	}
	result.Before = graph.FromDAG(working)
	result.MetricsBefore = before

	after := working
	if opts.ApplyTransitiveReduction {
		start := time.Now()
		observability.Engine().OnReduceStart(ctx, after.NodeCount(), after.EdgeCount())
		res, err := transform.ReduceWith(after, opts.Strategy, closure)
		if err != nil {
			observability.Engine().OnReduceComplete(ctx, "", 0, time.Since(start), err)
			return nil, coded(err)
		}
		observability.Engine().OnReduceComplete(ctx, string(res.Method), len(res.Removed), time.Since(start), nil)
		after = res.Graph
		result.Method = string(res.Method)
		log.Debug("transitive reduction complete",
			"method", res.Method, "removed", len(res.Removed))
	}

	if opts.MergeEquivalentNodes {
		start := time.Now()
		observability.Engine().OnMergeStart(ctx, after.NodeCount())
		merged := transform.MergeEquivalent(after)
		observability.Engine().OnMergeComplete(ctx, after.NodeCount()-merged.NodeCount(), time.Since(start), nil)
		log.Debug("node merge complete",
			"before", after.NodeCount(), "after", merged.NodeCount())
		after = merged
	}

	mstart = time.Now()
	observability.Engine().OnMetricsStart(ctx, after.NodeCount(), after.EdgeCount())
	afterMetrics, err := analysis.ComputeWith(after, nil, topK)
	observability.Engine().OnMetricsComplete(ctx, time.Since(mstart), err)
	if err != nil {
		return nil, coded(err)
	}
	result.After = graph.FromDAG(after)
	result.MetricsAfter = afterMetrics
	return result, nil
}

// CriticalPath runs the PERT/CPM analysis; durations may be nil for
// unit-length tasks.
func (o *Optimizer) CriticalPath(durations map[string]float64) (*analysis.CriticalPathReport, error) {
	report, err := analysis.CriticalPath(o.g, durations)
	return report, coded(err)
}

// Layers runs the longest-path layer decomposition.
func (o *Optimizer) Layers() (*analysis.LayerReport, error) {
	report, err := analysis.Layers(o.g)
	return report, coded(err)
}

// EdgeCriticality partitions the edges into critical and redundant
// without mutating the graph.
func (o *Optimizer) EdgeCriticality() (*analysis.CriticalityReport, error) {
	report, err := analysis.EdgeCriticality(o.g, nil)
	return report, coded(err)
}

// Metrics computes the full metrics report on the current graph.
func (o *Optimizer) Metrics() (*analysis.Report, error) {
	report, err := analysis.ComputeWith(o.g, nil, analysis.DefaultTopK)
	return report, coded(err)
}

// coded translates engine sentinel errors into the structured taxonomy
// the CLI and API report to users.
func coded(err error) error {
	if err == nil {
		return nil
	}
	var cerr *dag.CycleError
	switch {
	case stderrors.As(err, &cerr):
		return errors.Wrap(errors.ErrCodeCyclicGraph, err, "graph contains %d cycle(s)", len(cerr.Cycles))
	case stderrors.Is(err, dag.ErrGraphHasCycle):
		return errors.Wrap(errors.ErrCodeCyclicGraph, err, "graph contains a cycle")
	case stderrors.Is(err, dag.ErrEmptyGraph):
		return errors.Wrap(errors.ErrCodeEmptyGraph, err, "graph has no nodes")
	case stderrors.Is(err, dag.ErrUnknownNode):
		return errors.Wrap(errors.ErrCodeNodeNotFound, err, "unknown node")
	case stderrors.Is(err, dag.ErrInvalidNodeID), stderrors.Is(err, dag.ErrDuplicateNodeID):
		return errors.Wrap(errors.ErrCodeMalformedInput, err, "invalid node")
	default:
		return err
	}
}
