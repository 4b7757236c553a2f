package store

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/dagopt/pkg/errors"
	"github.com/matzehuels/dagopt/pkg/graph"
	"github.com/matzehuels/dagopt/pkg/optimizer"
)

func sampleRun(t *testing.T, label string) *Run {
	t.Helper()
	o, err := optimizer.New([]graph.EdgeRecord{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
		{Source: "a", Target: "c"},
	})
	if err != nil {
		t.Fatal(err)
	}
	result, err := o.Optimize(context.Background(), optimizer.Options{ApplyTransitiveReduction: true})
	if err != nil {
		t.Fatal(err)
	}
	return NewRun(label, result)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close(ctx)

	run := sampleRun(t, "nightly")
	if err := s.Save(ctx, run); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load(ctx, run.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != run.ID || loaded.Label != "nightly" {
		t.Errorf("loaded = %+v, want ID %s label nightly", loaded, run.ID)
	}
	if loaded.Result.MetricsBefore.NumEdges != 3 || loaded.Result.MetricsAfter.NumEdges != 2 {
		t.Errorf("metrics lost in round trip: before %d, after %d",
			loaded.Result.MetricsBefore.NumEdges, loaded.Result.MetricsAfter.NumEdges)
	}
	if len(loaded.Result.After.Edges) != 2 {
		t.Errorf("after graph has %d edges, want 2", len(loaded.Result.After.Edges))
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "nope"); !errors.Is(err, errors.ErrCodeRunNotFound) {
		t.Errorf("err = %v, want RUN_NOT_FOUND", err)
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first := sampleRun(t, "first")
	if err := s.Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	second := sampleRun(t, "second")
	if err := s.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d runs, want 2", len(ids))
	}
	if ids[0] != second.ID {
		t.Errorf("newest run not first: %v", ids)
	}
}

func TestNewRunAssignsIdentity(t *testing.T) {
	a, b := sampleRun(t, ""), sampleRun(t, "")
	if a.ID == "" || a.ID == b.ID {
		t.Error("run IDs must be unique and non-empty")
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}
