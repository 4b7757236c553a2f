package analysis

import (
	"errors"
	"testing"

	"github.com/matzehuels/dagopt/pkg/dag"
	"github.com/matzehuels/dagopt/pkg/dag/reach"
)

func TestEdgeCriticalityPartition(t *testing.T) {
	g := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"a", "c"},
	)
	report, err := EdgeCriticality(g, nil)
	if err != nil {
		t.Fatalf("EdgeCriticality: %v", err)
	}

	if got := len(report.Critical) + len(report.Redundant); got != g.EdgeCount() {
		t.Fatalf("partition covers %d edges, want %d", got, g.EdgeCount())
	}
	seen := make(map[[2]string]bool)
	for _, e := range report.Critical {
		seen[[2]string{e.From, e.To}] = true
	}
	for _, e := range report.Redundant {
		if seen[[2]string{e.From, e.To}] {
			t.Errorf("edge %s→%s appears in both partitions", e.From, e.To)
		}
	}

	if len(report.Redundant) != 1 || report.Redundant[0].From != "a" || report.Redundant[0].To != "c" {
		t.Errorf("redundant = %v, want [a→c]", report.Redundant)
	}
	if report.Ratio != 2.0/3.0 {
		t.Errorf("ratio = %v, want 2/3", report.Ratio)
	}

	for _, s := range report.Scores {
		want := 1.0
		if s.From == "a" && s.To == "c" {
			want = 0.0
		}
		if s.Score != want {
			t.Errorf("score(%s→%s) = %v, want %v", s.From, s.To, s.Score, want)
		}
	}

	// Classification must not touch the input.
	if !g.HasEdge("a", "c") {
		t.Error("input graph was mutated")
	}
}

func TestEdgeCriticalityWithSharedClosure(t *testing.T) {
	g := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"c", "d"},
		[2]string{"a", "d"},
	)
	m := reach.Closure(g)
	report, err := EdgeCriticality(g, m)
	if err != nil {
		t.Fatalf("EdgeCriticality: %v", err)
	}
	if len(report.Redundant) != 1 || report.Redundant[0].From != "a" || report.Redundant[0].To != "d" {
		t.Errorf("redundant = %v, want [a→d]", report.Redundant)
	}
}

func TestEdgeCriticalityCyclic(t *testing.T) {
	g := mustDAG(t, [2]string{"a", "b"}, [2]string{"b", "a"})
	if _, err := EdgeCriticality(g, nil); !errors.Is(err, dag.ErrGraphHasCycle) {
		t.Errorf("err = %v, want ErrGraphHasCycle", err)
	}
}
