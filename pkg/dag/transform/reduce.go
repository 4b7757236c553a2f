// Package transform rewrites graphs: transitive reduction, cycle
// detection and removal, and equivalent-node merging. Every transform
// returns a new graph and leaves its input untouched.
package transform

import (
	"github.com/matzehuels/dagopt/pkg/dag"
	"github.com/matzehuels/dagopt/pkg/dag/reach"
)

// DefaultStrategy is the variant-selection policy used by [Reduce].
var DefaultStrategy Strategy = DensityStrategy{}

// ReduceResult carries the outcome of a transitive reduction. Removed
// lists the redundant edges in input insertion order; the reduction of a
// DAG is unique, so the set does not depend on the variant that ran.
type ReduceResult struct {
	Graph   *dag.DAG
	Method  Method
	Removed []dag.Edge
}

// Reduce computes the transitive reduction of g: the unique minimal edge
// set with the same reachability relation. An edge u→v is redundant iff
// some path of length ≥ 2 also connects u to v. The input is not
// modified. Returns a [*dag.CycleError] if g contains cycles; reduction
// is only defined for acyclic graphs.
func Reduce(g *dag.DAG) (*ReduceResult, error) {
	return ReduceWith(g, nil, nil)
}

// ReduceWith is [Reduce] with an explicit variant-selection strategy and
// an optional precomputed closure matrix. A nil strategy means
// [DefaultStrategy]. The closure is consulted only when the closure
// variant is selected; passing one avoids recomputing the O(n³)
// structure when the caller already holds it. A nil closure is computed
// on demand.
func ReduceWith(g *dag.DAG, s Strategy, closure *reach.Matrix) (*ReduceResult, error) {
	if cycles := DetectCycles(g); len(cycles) > 0 {
		return nil, &dag.CycleError{Cycles: cycles}
	}
	if s == nil {
		s = DefaultStrategy
	}

	method := s.Select(g)
	var removed []dag.Edge
	switch method {
	case MethodClosure:
		if closure == nil {
			closure = reach.Closure(g)
		}
		removed = redundantByClosure(g, closure)
	default:
		removed = redundantByDFS(g)
	}

	reduced := g.Clone()
	for _, e := range removed {
		reduced.RemoveEdge(e.From, e.To)
	}
	return &ReduceResult{Graph: reduced, Method: method, Removed: removed}, nil
}

// redundantByDFS finds redundant edges without materializing a closure
// matrix: for each direct successor v of u, walk everything reachable
// strictly below v and flag any direct edge u→w rediscovered there.
// Amortized O(n·m), memory proportional to one visited set at a time.
func redundantByDFS(g *dag.DAG) []dag.Edge {
	redundant := make(map[[2]string]bool)

	for _, u := range g.Nodes() {
		succs := g.Successors(u)
		if len(succs) < 2 {
			// A single outgoing edge cannot be shadowed by a sibling path.
			continue
		}
		for _, v := range succs {
			seen := map[string]bool{v: true}
			stack := []string{v}
			for len(stack) > 0 {
				x := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for _, w := range g.Successors(x) {
					if seen[w] {
						continue
					}
					seen[w] = true
					if g.HasEdge(u, w) {
						redundant[[2]string{u, w}] = true
					}
					stack = append(stack, w)
				}
			}
		}
	}

	return collectEdges(g, redundant)
}

// redundantByClosure flags edge u→v as redundant when some intermediate
// k (distinct from both endpoints) satisfies closure(u,k) ∧ closure(k,v).
// On an acyclic graph that is exactly the length ≥ 2 path condition.
func redundantByClosure(g *dag.DAG, m *reach.Matrix) []dag.Edge {
	redundant := make(map[[2]string]bool)
	n := m.Size()

	for _, e := range g.Edges() {
		i, _ := m.Index(e.From)
		j, _ := m.Index(e.To)
		for k := 0; k < n; k++ {
			if k == i || k == j {
				continue
			}
			if m.At(i, k) && m.At(k, j) {
				redundant[[2]string{e.From, e.To}] = true
				break
			}
		}
	}

	return collectEdges(g, redundant)
}

// collectEdges returns the flagged edges in the graph's insertion order,
// with their tag sets intact.
func collectEdges(g *dag.DAG, flagged map[[2]string]bool) []dag.Edge {
	var out []dag.Edge
	for _, e := range g.Edges() {
		if flagged[[2]string{e.From, e.To}] {
			out = append(out, e)
		}
	}
	return out
}
