package transform

import (
	"slices"
	"strings"

	"github.com/matzehuels/dagopt/pkg/dag"
)

// MergeEquivalent collapses structurally equivalent nodes: two nodes are
// equivalent when their predecessor sets and successor sets are equal
// after excluding each other. Each equivalence class of size ≥ 2 becomes
// a single node whose ID is the sorted member IDs joined with "+". Edges
// are rewired onto the merged nodes, duplicates collapse with their tag
// sets unioned, and edges internal to a class disappear.
//
// Merging runs to a fixpoint, so applying it to an already-merged graph
// changes nothing. The input is not modified.
func MergeEquivalent(g *dag.DAG) *dag.DAG {
	out := g
	for {
		merged, changed := mergeOnce(out)
		if !changed {
			return merged
		}
		out = merged
	}
}

// mergeOnce performs a single grouping pass over the graph.
func mergeOnce(g *dag.DAG) (*dag.DAG, bool) {
	nodes := g.Nodes()
	uf := newUnionFind(nodes)

	// Non-adjacent equivalences: exclusion is a no-op, so grouping by the
	// raw (preds, succs) signature finds them all in one pass.
	bySignature := make(map[string][]string, len(nodes))
	for _, id := range nodes {
		sig := signature(g.Predecessors(id)) + "\x1e" + signature(g.Successors(id))
		bySignature[sig] = append(bySignature[sig], id)
	}
	for _, group := range bySignature {
		for _, id := range group[1:] {
			uf.union(group[0], id)
		}
	}

	// Adjacent pairs need the exclusion applied explicitly: an edge u→v
	// puts u in preds(v) and v in succs(u), which the raw signatures can
	// never match.
	for _, e := range g.Edges() {
		if sameExcluding(g.Predecessors(e.From), g.Predecessors(e.To), e.To, e.From) &&
			sameExcluding(g.Successors(e.From), g.Successors(e.To), e.To, e.From) {
			uf.union(e.From, e.To)
		}
	}

	classes := make(map[string][]string, len(nodes))
	for _, id := range nodes {
		root := uf.find(id)
		classes[root] = append(classes[root], id)
	}

	changed := false
	mapped := make(map[string]string, len(nodes))
	for _, members := range classes {
		if len(members) == 1 {
			mapped[members[0]] = members[0]
			continue
		}
		changed = true
		sorted := slices.Clone(members)
		slices.Sort(sorted)
		mergedID := strings.Join(sorted, "+")
		for _, id := range members {
			mapped[id] = mergedID
		}
	}
	if !changed {
		return g.Clone(), false
	}

	merged := dag.New()
	for _, id := range nodes {
		nid := mapped[id]
		if !merged.HasNode(nid) {
			_ = merged.AddNode(nid)
		}
	}
	for _, e := range g.Edges() {
		from, to := mapped[e.From], mapped[e.To]
		if from == to {
			continue
		}
		_ = merged.AddEdge(from, to, e.Tags...)
	}
	return merged, true
}

// signature canonicalizes a neighbor list into a comparable key.
func signature(ids []string) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return strings.Join(sorted, "\x1f")
}

// sameExcluding reports whether a\{exA} and b\{exB} are equal as sets.
func sameExcluding(a, b []string, exA, exB string) bool {
	setA := make(map[string]bool, len(a))
	for _, id := range a {
		if id != exA {
			setA[id] = true
		}
	}
	count := 0
	for _, id := range b {
		if id == exB {
			continue
		}
		if !setA[id] {
			return false
		}
		count++
	}
	return count == len(setA)
}

// unionFind is a plain disjoint-set over node IDs with path compression.
type unionFind struct {
	parent map[string]string
}

func newUnionFind(ids []string) *unionFind {
	parent := make(map[string]string, len(ids))
	for _, id := range ids {
		parent[id] = id
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(id string) string {
	for u.parent[id] != id {
		u.parent[id] = u.parent[u.parent[id]]
		id = u.parent[id]
	}
	return id
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}
