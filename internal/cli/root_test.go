package cli

import (
	"testing"
)

func TestSetVersion(t *testing.T) {
	SetVersion("v1.0.0", "abc123", "2024-01-01")

	if version != "v1.0.0" {
		t.Errorf("version = %q, want %q", version, "v1.0.0")
	}
	if commit != "abc123" {
		t.Errorf("commit = %q, want %q", commit, "abc123")
	}
	if date != "2024-01-01" {
		t.Errorf("date = %q, want %q", date, "2024-01-01")
	}
}

func TestOptimizeStrategy(t *testing.T) {
	tests := []struct {
		method  string
		wantErr bool
	}{
		{"auto", false},
		{"", false},
		{"dfs", false},
		{"closure", false},
		{"magic", true},
	}
	for _, tt := range tests {
		opts := optimizeOpts{method: tt.method}
		_, err := opts.strategy(0)
		if (err != nil) != tt.wantErr {
			t.Errorf("strategy(%q) error = %v, wantErr %v", tt.method, err, tt.wantErr)
		}
	}
}
