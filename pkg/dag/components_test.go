package dag

import (
	"slices"
	"testing"
)

func TestWeakComponents(t *testing.T) {
	g := New()
	for _, e := range [][2]string{{"a", "b"}, {"c", "b"}, {"d", "e"}} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddNode("f"); err != nil {
		t.Fatal(err)
	}

	got := g.WeakComponents()
	want := [][]string{{"a", "b", "c"}, {"d", "e"}, {"f"}}
	if len(got) != len(want) {
		t.Fatalf("components = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("component %d = %v, want %v", i, got[i], want[i])
		}
	}
	if g.WeakComponentCount() != 3 {
		t.Errorf("count = %d, want 3", g.WeakComponentCount())
	}
}

func TestWeakComponentsEmpty(t *testing.T) {
	if got := New().WeakComponents(); len(got) != 0 {
		t.Errorf("components of empty graph = %v", got)
	}
}
