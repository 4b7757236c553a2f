package transform

import (
	"errors"
	"testing"

	"github.com/matzehuels/dagopt/pkg/dag"
	"github.com/matzehuels/dagopt/pkg/dag/reach"
)

func mustDAG(t *testing.T, edges ...[2]string) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%s, %s): %v", e[0], e[1], err)
		}
	}
	return g
}

func edgeSet(g *dag.DAG) map[[2]string]bool {
	set := make(map[[2]string]bool)
	for _, e := range g.Edges() {
		set[[2]string{e.From, e.To}] = true
	}
	return set
}

func TestReduceDiamond(t *testing.T) {
	for _, method := range []Method{MethodDFS, MethodClosure} {
		t.Run(string(method), func(t *testing.T) {
			g := mustDAG(t,
				[2]string{"a", "b"},
				[2]string{"a", "c"},
				[2]string{"b", "d"},
				[2]string{"c", "d"},
				[2]string{"a", "d"},
			)
			res, err := ReduceWith(g, FixedStrategy{Variant: method}, nil)
			if err != nil {
				t.Fatalf("ReduceWith: %v", err)
			}
			if res.Method != method {
				t.Errorf("method = %q, want %q", res.Method, method)
			}
			if res.Graph.HasEdge("a", "d") {
				t.Error("shortcut a→d survived reduction")
			}
			if got := res.Graph.EdgeCount(); got != 4 {
				t.Errorf("edge count = %d, want 4", got)
			}
			if len(res.Removed) != 1 || res.Removed[0].From != "a" || res.Removed[0].To != "d" {
				t.Errorf("removed = %v, want [a→d]", res.Removed)
			}
			// Input must be untouched.
			if !g.HasEdge("a", "d") {
				t.Error("input graph was mutated")
			}
		})
	}
}

func TestReduceVariantsAgree(t *testing.T) {
	g := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"c", "d"},
		[2]string{"a", "c"},
		[2]string{"a", "d"},
		[2]string{"b", "d"},
		[2]string{"e", "a"},
		[2]string{"e", "d"},
	)
	dfs, err := ReduceWith(g, FixedStrategy{Variant: MethodDFS}, nil)
	if err != nil {
		t.Fatalf("dfs variant: %v", err)
	}
	closure, err := ReduceWith(g, FixedStrategy{Variant: MethodClosure}, nil)
	if err != nil {
		t.Fatalf("closure variant: %v", err)
	}

	dfsEdges, closureEdges := edgeSet(dfs.Graph), edgeSet(closure.Graph)
	if len(dfsEdges) != len(closureEdges) {
		t.Fatalf("variants disagree: dfs %d edges, closure %d edges", len(dfsEdges), len(closureEdges))
	}
	for e := range dfsEdges {
		if !closureEdges[e] {
			t.Errorf("edge %s→%s kept by dfs but not by closure", e[0], e[1])
		}
	}
}

func TestReducePreservesReachability(t *testing.T) {
	g := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"a", "c"},
		[2]string{"b", "d"},
		[2]string{"c", "d"},
		[2]string{"a", "d"},
		[2]string{"d", "e"},
		[2]string{"a", "e"},
	)
	res, err := Reduce(g)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}

	before, after := reach.Closure(g), reach.Closure(res.Graph)
	for _, u := range g.Nodes() {
		for _, v := range g.Nodes() {
			if before.Reaches(u, v) != after.Reaches(u, v) {
				t.Errorf("reachability %s→%s changed: before %v, after %v",
					u, v, before.Reaches(u, v), after.Reaches(u, v))
			}
		}
	}
}

func TestReduceMinimal(t *testing.T) {
	g := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"a", "c"},
		[2]string{"b", "d"},
		[2]string{"c", "d"},
		[2]string{"a", "d"},
		[2]string{"d", "e"},
		[2]string{"a", "e"},
		[2]string{"b", "e"},
	)
	res, err := Reduce(g)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}

	// Every surviving edge is load-bearing: dropping it must sever at
	// least one reachable pair.
	full := reach.Closure(res.Graph)
	for _, e := range res.Graph.Edges() {
		pruned := res.Graph.Clone()
		pruned.RemoveEdge(e.From, e.To)
		after := reach.Closure(pruned)

		severed := false
		for _, u := range res.Graph.Nodes() {
			for _, v := range res.Graph.Nodes() {
				if full.Reaches(u, v) && !after.Reaches(u, v) {
					severed = true
				}
			}
		}
		if !severed {
			t.Errorf("edge %s→%s survived reduction but carries no reachability", e.From, e.To)
		}
	}
}

func TestReduceIdempotent(t *testing.T) {
	g := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"a", "c"},
	)
	first, err := Reduce(g)
	if err != nil {
		t.Fatalf("first Reduce: %v", err)
	}
	second, err := Reduce(first.Graph)
	if err != nil {
		t.Fatalf("second Reduce: %v", err)
	}
	if len(second.Removed) != 0 {
		t.Errorf("second reduction removed %v, want nothing", second.Removed)
	}
}

func TestReduceCyclicInput(t *testing.T) {
	g := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"c", "a"},
	)
	_, err := Reduce(g)
	if !errors.Is(err, dag.ErrGraphHasCycle) {
		t.Fatalf("err = %v, want ErrGraphHasCycle", err)
	}
	var cerr *dag.CycleError
	if !errors.As(err, &cerr) {
		t.Fatal("error does not carry the cycle list")
	}
	if len(cerr.Cycles) == 0 {
		t.Error("cycle list is empty")
	}
}

func TestReduceReusesProvidedClosure(t *testing.T) {
	g := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"a", "c"},
	)
	m := reach.Closure(g)
	res, err := ReduceWith(g, FixedStrategy{Variant: MethodClosure}, m)
	if err != nil {
		t.Fatalf("ReduceWith: %v", err)
	}
	if res.Graph.HasEdge("a", "c") {
		t.Error("shortcut a→c survived reduction")
	}
}

func TestDensityStrategy(t *testing.T) {
	// A 12-node chain has density 11/132 ≈ 0.083, under the default 0.1.
	sparse := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"c", "d"},
		[2]string{"d", "e"},
		[2]string{"e", "f"},
		[2]string{"f", "g"},
		[2]string{"g", "h"},
		[2]string{"h", "i"},
		[2]string{"i", "j"},
		[2]string{"j", "k"},
		[2]string{"k", "l"},
	)
	if got := (DensityStrategy{}).Select(sparse); got != MethodDFS {
		t.Errorf("sparse graph selected %q, want %q", got, MethodDFS)
	}

	dense := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"a", "c"},
		[2]string{"b", "c"},
	)
	if got := (DensityStrategy{}).Select(dense); got != MethodClosure {
		t.Errorf("dense graph selected %q, want %q", got, MethodClosure)
	}

	if got := (DensityStrategy{Threshold: 0.9}).Select(dense); got != MethodDFS {
		t.Errorf("raised threshold selected %q, want %q", got, MethodDFS)
	}
}
