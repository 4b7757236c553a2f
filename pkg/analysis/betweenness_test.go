package analysis

import (
	"math"
	"testing"
)

func TestBetweennessChain(t *testing.T) {
	// In a→b→c every shortest path through the middle is a-c, so b scores
	// 1 pair; normalized by (n-1)(n-2) = 2 that is 0.5.
	g := mustDAG(t, [2]string{"a", "b"}, [2]string{"b", "c"})
	score := Betweenness(g)

	if math.Abs(score["b"]-0.5) > 1e-9 {
		t.Errorf("score(b) = %v, want 0.5", score["b"])
	}
	if score["a"] != 0 || score["c"] != 0 {
		t.Errorf("endpoints scored %v / %v, want 0", score["a"], score["c"])
	}
}

func TestBetweennessSplitPaths(t *testing.T) {
	// Two equal-length routes from a to d: each middle node carries half
	// the a-d pair.
	g := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"a", "c"},
		[2]string{"b", "d"},
		[2]string{"c", "d"},
	)
	score := Betweenness(g)
	norm := float64(3 * 2)
	if math.Abs(score["b"]-0.5/norm) > 1e-9 {
		t.Errorf("score(b) = %v, want %v", score["b"], 0.5/norm)
	}
	if math.Abs(score["b"]-score["c"]) > 1e-9 {
		t.Errorf("symmetric nodes differ: %v vs %v", score["b"], score["c"])
	}
}

func TestTopBetweenness(t *testing.T) {
	g := mustDAG(t,
		[2]string{"a", "hub"},
		[2]string{"b", "hub"},
		[2]string{"hub", "c"},
		[2]string{"hub", "d"},
	)
	top := TopBetweenness(g, 2)
	if len(top) != 2 {
		t.Fatalf("got %d entries, want 2", len(top))
	}
	if top[0].ID != "hub" {
		t.Errorf("top node = %s, want hub", top[0].ID)
	}
	if top[0].Score < top[1].Score {
		t.Error("ranking is not descending")
	}

	if got := TopBetweenness(g, 0); got != nil {
		t.Errorf("k=0 returned %v", got)
	}
	if got := TopBetweenness(g, 100); len(got) != g.NodeCount() {
		t.Errorf("oversized k returned %d entries, want %d", len(got), g.NodeCount())
	}
}

func TestStronglyConnected(t *testing.T) {
	tests := []struct {
		name      string
		edges     [][2]string
		wantCount int
	}{
		{"acyclic chain", [][2]string{{"a", "b"}, {"b", "c"}}, 3},
		{"triangle", [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}}, 1},
		{"cycle plus tail", [][2]string{{"a", "b"}, {"b", "a"}, {"b", "c"}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustDAG(t, tt.edges...)
			if got := SCCCount(g); got != tt.wantCount {
				t.Errorf("SCCCount = %d, want %d", got, tt.wantCount)
			}
		})
	}
}

func TestStronglyConnectedMembers(t *testing.T) {
	g := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"c", "b"},
		[2]string{"c", "d"},
	)
	comps := StronglyConnected(g)
	var cycleComp []string
	for _, c := range comps {
		if len(c) > 1 {
			cycleComp = c
		}
	}
	if len(cycleComp) != 2 {
		t.Fatalf("components = %v, want one of size 2", comps)
	}
	member := map[string]bool{cycleComp[0]: true, cycleComp[1]: true}
	if !member["b"] || !member["c"] {
		t.Errorf("cycle component = %v, want b and c", cycleComp)
	}
}
