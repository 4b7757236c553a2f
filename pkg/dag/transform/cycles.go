package transform

import (
	"slices"

	"github.com/matzehuels/dagopt/pkg/dag"
)

// DetectCycles finds directed cycles with an iterative depth-first
// traversal that keeps the current DFS path explicit: hitting a node
// already on the path closes a cycle, reconstructed as the path suffix
// starting at that node. One sequence is reported per back edge, roots
// and successors visited in insertion order, so the output is
// deterministic for a given input. An empty result means acyclic.
func DetectCycles(g *dag.DAG) [][]string {
	visited := make(map[string]bool, g.NodeCount())
	onPath := make(map[string]int, g.NodeCount())
	var cycles [][]string

	type frame struct {
		id   string
		next int
	}

	for _, root := range g.Nodes() {
		if visited[root] {
			continue
		}
		stack := []frame{{id: root}}
		path := []string{root}
		visited[root] = true
		onPath[root] = 0

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			succ := g.Successors(f.id)
			if f.next < len(succ) {
				child := succ[f.next]
				f.next++
				if at, ok := onPath[child]; ok {
					cycles = append(cycles, slices.Clone(path[at:]))
					continue
				}
				if !visited[child] {
					visited[child] = true
					onPath[child] = len(path)
					path = append(path, child)
					stack = append(stack, frame{id: child})
				}
				continue
			}
			delete(onPath, f.id)
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
		}
	}
	return cycles
}

// RemoveCycles returns an acyclic copy of g along with the edges that
// were cut. Each round removes the closing edge of the first cycle
// reported by [DetectCycles] and re-runs detection, because cutting one
// edge can break several overlapping cycles at once. The rounds are
// deterministic, so identical inputs always lose identical edges. The
// input graph is not modified.
func RemoveCycles(g *dag.DAG) (*dag.DAG, []dag.Edge) {
	out := g.Clone()
	var removed []dag.Edge

	for {
		cycles := DetectCycles(out)
		if len(cycles) == 0 {
			return out, removed
		}
		c := cycles[0]
		from, to := c[len(c)-1], c[0]
		if e, ok := out.Edge(from, to); ok {
			removed = append(removed, e)
		}
		out.RemoveEdge(from, to)
	}
}
