package reach

import (
	"testing"

	"github.com/matzehuels/dagopt/pkg/dag"
)

func buildChainWithShortcut(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, e := range [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}, {"c", "d"}} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestClosure(t *testing.T) {
	m := Closure(buildChainWithShortcut(t))

	tests := []struct {
		u, v string
		want bool
	}{
		{"a", "a", true}, // reflexive
		{"a", "b", true},
		{"a", "d", true}, // transitive through two hops
		{"b", "d", true},
		{"d", "a", false},
		{"b", "a", false},
		{"a", "zzz", false}, // unknown node
	}
	for _, tt := range tests {
		if got := m.Reaches(tt.u, tt.v); got != tt.want {
			t.Errorf("Reaches(%s, %s) = %v, want %v", tt.u, tt.v, got, tt.want)
		}
	}
}

func TestClosurePairCount(t *testing.T) {
	m := Closure(buildChainWithShortcut(t))
	// Reachable ordered pairs: ab ac ad bc bd cd.
	if got := m.PairCount(); got != 6 {
		t.Errorf("PairCount() = %d, want 6", got)
	}
}

func TestClosureDisconnected(t *testing.T) {
	g := dag.New()
	if err := g.AddEdge("a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode("x"); err != nil {
		t.Fatal(err)
	}
	m := Closure(g)
	if m.Reaches("a", "x") || m.Reaches("x", "b") {
		t.Error("isolated node gained reachability")
	}
	if !m.Reaches("x", "x") {
		t.Error("reflexive entry missing for isolated node")
	}
	if m.Size() != 3 {
		t.Errorf("Size() = %d, want 3", m.Size())
	}
}

func TestClosureCyclic(t *testing.T) {
	g := dag.New()
	for _, e := range [][2]string{{"a", "b"}, {"b", "a"}} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	m := Closure(g)
	if !m.Reaches("a", "b") || !m.Reaches("b", "a") {
		t.Error("cycle members must reach each other")
	}
}
