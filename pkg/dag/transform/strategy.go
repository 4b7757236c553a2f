package transform

import "github.com/matzehuels/dagopt/pkg/dag"

// Method identifies which reduction variant ran, for observability.
type Method string

const (
	// MethodDFS is the per-edge DFS reachability variant, chosen for
	// sparse graphs. Roughly O(n·m) amortized.
	MethodDFS Method = "dfs"

	// MethodClosure is the closure-matrix variant, chosen for dense
	// graphs. O(n³) time, O(n²) space.
	MethodClosure Method = "closure"
)

// DefaultDensityThreshold is the density below which the DFS variant is
// preferred. The value is empirical: dependency graphs from build systems
// and workflow engines almost always sit well under it.
const DefaultDensityThreshold = 0.1

// Strategy selects the reduction variant for a given graph. Injecting a
// Strategy lets deployments tune or replace the selection policy without
// touching the engine.
type Strategy interface {
	Select(g *dag.DAG) Method
}

// DensityStrategy selects by edge density: below Threshold the DFS variant
// runs, otherwise the closure-matrix variant. A zero Threshold means
// DefaultDensityThreshold.
type DensityStrategy struct {
	Threshold float64
}

// Select implements Strategy.
func (s DensityStrategy) Select(g *dag.DAG) Method {
	threshold := s.Threshold
	if threshold == 0 {
		threshold = DefaultDensityThreshold
	}
	if Density(g) < threshold {
		return MethodDFS
	}
	return MethodClosure
}

// FixedStrategy always selects the same variant, regardless of the graph.
// Useful for tests and benchmarks comparing the two implementations.
type FixedStrategy struct {
	Variant Method
}

// Select implements Strategy.
func (s FixedStrategy) Select(*dag.DAG) Method { return s.Variant }

// Density returns |E| / (|V|·(|V|-1)), the fraction of possible directed
// edges present. Returns 0 for graphs with one node or fewer.
func Density(g *dag.DAG) float64 {
	n := g.NodeCount()
	if n <= 1 {
		return 0
	}
	return float64(g.EdgeCount()) / float64(n*(n-1))
}
