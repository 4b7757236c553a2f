// Package reach computes reachability over a DAG as a boolean closure
// matrix. The matrix is the shared substrate for the dense transitive
// reduction variant and for edge-criticality classification: compute it
// once per call chain and pass it to every consumer, rather than
// recomputing the O(n³) structure per caller.
//
// Matrices are derived values. They are never updated in place after a
// structural change - recompute from the new graph instead.
package reach

import "github.com/matzehuels/dagopt/pkg/dag"

// Matrix is the reflexive-transitive closure of a graph over its node
// insertion ordering: entry (i,j) is true iff a directed path of length
// ≥ 0 exists from node i to node j. Every diagonal entry is true.
type Matrix struct {
	ids []string
	pos map[string]int
	m   [][]bool
}

// Closure builds the reflexive-transitive closure of g using the all-pairs
// dynamic-programming pass: for each intermediate k, reachable(i,j) |=
// reachable(i,k) && reachable(k,j). Cost O(n³) time, O(n²) space.
//
// The computation is valid for cyclic graphs too; only the consumers that
// require acyclicity need to check.
func Closure(g *dag.DAG) *Matrix {
	ids := g.Nodes()
	pos := dag.PosMap(ids)
	n := len(ids)

	m := make([][]bool, n)
	for i := range m {
		m[i] = make([]bool, n)
		m[i][i] = true
	}
	for _, e := range g.Edges() {
		m[pos[e.From]][pos[e.To]] = true
	}

	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if !m[i][k] {
				continue
			}
			row, krow := m[i], m[k]
			for j := 0; j < n; j++ {
				if krow[j] {
					row[j] = true
				}
			}
		}
	}

	return &Matrix{ids: ids, pos: pos, m: m}
}

// Reaches reports whether a path (length ≥ 0) exists from u to v.
// Unknown nodes are unreachable.
func (m *Matrix) Reaches(u, v string) bool {
	i, iok := m.pos[u]
	j, jok := m.pos[v]
	return iok && jok && m.m[i][j]
}

// At reports closure entry (i,j) in the matrix's node ordering.
func (m *Matrix) At(i, j int) bool { return m.m[i][j] }

// Index returns the matrix position of the node, or false if unknown.
func (m *Matrix) Index(id string) (int, bool) {
	i, ok := m.pos[id]
	return i, ok
}

// IDs returns the node ordering the matrix is built over.
func (m *Matrix) IDs() []string { return m.ids }

// Size returns the node count n of the n×n matrix.
func (m *Matrix) Size() int { return len(m.ids) }

// PairCount returns the number of reachable ordered pairs (i,j) with i≠j,
// i.e. the edge count of the non-reflexive transitive closure.
func (m *Matrix) PairCount() int {
	count := 0
	for i := range m.m {
		for j := range m.m[i] {
			if i != j && m.m[i][j] {
				count++
			}
		}
	}
	return count
}
