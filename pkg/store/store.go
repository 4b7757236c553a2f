// Package store persists optimization runs so earlier results can be
// retrieved and compared. A run is the full before/after record of one
// Optimize call plus bookkeeping metadata. Two backends exist: a
// per-run JSON folder for CLI use and a Mongo collection for server
// deployments.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/dagopt/pkg/optimizer"
)

// Run is one persisted optimization result.
type Run struct {
	ID        string            `json:"id" bson:"_id"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
	Label     string            `json:"label,omitempty" bson:"label,omitempty"`
	Result    *optimizer.Result `json:"result" bson:"result"`
}

// Store reads and writes runs.
type Store interface {
	// Save persists a run, overwriting any run with the same ID.
	Save(ctx context.Context, run *Run) error

	// Load retrieves a run by ID. A missing run maps to ErrCodeRunNotFound.
	Load(ctx context.Context, id string) (*Run, error)

	// List returns the stored run IDs, newest first.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewRun wraps an optimization result with a fresh identity.
func NewRun(label string, result *optimizer.Result) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Label:     label,
		Result:    result,
	}
}
