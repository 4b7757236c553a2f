// Package analysis computes read-only analytics over dependency graphs:
// PERT/CPM critical paths, longest-path layering, edge criticality, and
// the structural metrics report. Nothing in this package mutates its
// input graph.
package analysis

import (
	"github.com/matzehuels/dagopt/pkg/dag"
	"github.com/matzehuels/dagopt/pkg/dag/transform"
)

// TopologicalOrder returns the nodes in a Kahn topological order. Nodes
// become ready when their last predecessor is emitted; ties are broken by
// insertion order, so the result is deterministic for a given input.
// Returns a [*dag.CycleError] when the graph is cyclic.
func TopologicalOrder(g *dag.DAG) ([]string, error) {
	indegree := make(map[string]int, g.NodeCount())
	var queue []string
	for _, id := range g.Nodes() {
		indegree[id] = g.InDegree(id)
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, g.NodeCount())
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, s := range g.Successors(id) {
			indegree[s]--
			if indegree[s] == 0 {
				queue = append(queue, s)
			}
		}
	}

	if len(order) < g.NodeCount() {
		return nil, &dag.CycleError{Cycles: transform.DetectCycles(g)}
	}
	return order, nil
}
