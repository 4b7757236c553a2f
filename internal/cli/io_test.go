package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGraphCSV(t *testing.T) {
	path := writeTemp(t, "deps.csv", "source,target\na,b\nb,c\n")
	g, err := loadGraph(path)
	if err != nil {
		t.Fatalf("loadGraph: %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("got %d nodes, %d edges; want 3, 2", g.NodeCount(), g.EdgeCount())
	}
}

func TestLoadGraphJSON(t *testing.T) {
	path := writeTemp(t, "deps.json",
		`{"nodes":["a","b"],"edges":[{"source":"a","target":"b"}]}`)
	g, err := loadGraph(path)
	if err != nil {
		t.Fatalf("loadGraph: %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("got %d nodes, %d edges; want 2, 1", g.NodeCount(), g.EdgeCount())
	}
}

func TestLoadGraphEmpty(t *testing.T) {
	path := writeTemp(t, "empty.csv", "  \n")
	if _, err := loadGraph(path); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestLoadDurations(t *testing.T) {
	path := writeTemp(t, "times.json", `{"a": 2.5, "b": 1}`)
	durations, err := loadDurations(path)
	if err != nil {
		t.Fatalf("loadDurations: %v", err)
	}
	if durations["a"] != 2.5 || durations["b"] != 1 {
		t.Errorf("durations = %v", durations)
	}
}

func TestLoadDurationsEmptyPath(t *testing.T) {
	durations, err := loadDurations("")
	if err != nil || durations != nil {
		t.Errorf("got %v, %v; want nil, nil", durations, err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path, want string
	}{
		{"out.svg", "svg"},
		{"out.png", "png"},
		{"out.dot", "dot"},
		{"out.gv", "dot"},
		{"out.json", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := formatFromPath(tt.path); got != tt.want {
			t.Errorf("formatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestParseTagColors(t *testing.T) {
	colors := parseTagColors([]string{"build=lightblue", "test=pink", "broken", "=x", "y="})
	if len(colors) != 2 {
		t.Fatalf("got %d colors, want 2: %v", len(colors), colors)
	}
	if colors["build"] != "lightblue" || colors["test"] != "pink" {
		t.Errorf("colors = %v", colors)
	}
}
