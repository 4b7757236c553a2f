package analysis

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/dagopt/pkg/dag"
)

func TestCriticalPathDiamond(t *testing.T) {
	g := mustDAG(t,
		[2]string{"A", "B"},
		[2]string{"A", "C"},
		[2]string{"B", "D"},
		[2]string{"C", "D"},
	)
	report, err := CriticalPath(g, nil)
	if err != nil {
		t.Fatalf("CriticalPath: %v", err)
	}

	if report.Makespan != 3 {
		t.Errorf("makespan = %v, want 3", report.Makespan)
	}
	for _, id := range []string{"A", "D"} {
		if report.Slack[id] != 0 {
			t.Errorf("slack(%s) = %v, want 0", id, report.Slack[id])
		}
	}
	// Both branches are critical; the tie resolves to the topologically
	// first one.
	if want := []string{"A", "B", "D"}; !slices.Equal(report.Path, want) {
		t.Errorf("path = %v, want %v", report.Path, want)
	}
}

func TestCriticalPathSlackNonNegative(t *testing.T) {
	g := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"b", "e"},
		[2]string{"a", "c"},
		[2]string{"c", "d"},
		[2]string{"d", "e"},
	)
	report, err := CriticalPath(g, nil)
	if err != nil {
		t.Fatalf("CriticalPath: %v", err)
	}
	for id, s := range report.Slack {
		if s < 0 {
			t.Errorf("slack(%s) = %v, negative", id, s)
		}
	}
	// The short branch a→b→e has one unit of room.
	if report.Slack["b"] != 1 {
		t.Errorf("slack(b) = %v, want 1", report.Slack["b"])
	}
	if want := []string{"a", "c", "d", "e"}; !slices.Equal(report.Path, want) {
		t.Errorf("path = %v, want %v", report.Path, want)
	}
}

func TestCriticalPathWeighted(t *testing.T) {
	g := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"a", "c"},
		[2]string{"b", "d"},
		[2]string{"c", "d"},
	)
	// The c branch becomes the long pole once it costs 5.
	durations := map[string]float64{"c": 5}
	report, err := CriticalPath(g, durations)
	if err != nil {
		t.Fatalf("CriticalPath: %v", err)
	}
	if report.Makespan != 7 {
		t.Errorf("makespan = %v, want 7", report.Makespan)
	}
	if want := []string{"a", "c", "d"}; !slices.Equal(report.Path, want) {
		t.Errorf("path = %v, want %v", report.Path, want)
	}
	if report.Slack["b"] != 4 {
		t.Errorf("slack(b) = %v, want 4", report.Slack["b"])
	}
}

func TestCriticalPathMakespanMatchesSinks(t *testing.T) {
	g := mustDAG(t,
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"a", "d"},
	)
	report, err := CriticalPath(g, nil)
	if err != nil {
		t.Fatalf("CriticalPath: %v", err)
	}
	max := 0.0
	for _, sink := range g.Sinks() {
		if finish := report.EST[sink] + 1; finish > max {
			max = finish
		}
	}
	if report.Makespan != max {
		t.Errorf("makespan = %v, want max sink finish %v", report.Makespan, max)
	}
}

func TestCriticalPathSingleNode(t *testing.T) {
	g := dag.New()
	if err := g.AddNode("only"); err != nil {
		t.Fatal(err)
	}
	report, err := CriticalPath(g, nil)
	if err != nil {
		t.Fatalf("CriticalPath: %v", err)
	}
	if report.Makespan != 1 {
		t.Errorf("makespan = %v, want 1", report.Makespan)
	}
	if want := []string{"only"}; !slices.Equal(report.Path, want) {
		t.Errorf("path = %v, want %v", report.Path, want)
	}
}

func TestCriticalPathErrors(t *testing.T) {
	if _, err := CriticalPath(dag.New(), nil); !errors.Is(err, dag.ErrEmptyGraph) {
		t.Errorf("empty graph: err = %v, want ErrEmptyGraph", err)
	}
	cyclic := mustDAG(t, [2]string{"a", "b"}, [2]string{"b", "a"})
	if _, err := CriticalPath(cyclic, nil); !errors.Is(err, dag.ErrGraphHasCycle) {
		t.Errorf("cyclic graph: err = %v, want ErrGraphHasCycle", err)
	}
}
