// Package cache provides the cache abstraction used by the server layer
// to avoid recomputing rendered artifacts and metric reports for graphs
// it has already seen. The engine itself never caches: every top-level
// call recomputes from the graph it is given, and only collaborator
// layers are allowed to remember results, keyed by graph content hash.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with TTL support.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// RenderKeyOpts are the options that make two renders of the same graph
// distinct artifacts.
type RenderKeyOpts struct {
	Format            string `json:"format"`
	HighlightCritical bool   `json:"highlight_critical"`
}

// Keyer builds cache keys for the different artifact families. Keys are
// content-addressed: the graph hash covers nodes, edges, and tags, so a
// changed graph can never serve a stale artifact.
type Keyer interface {
	// RenderKey generates a key for a rendered artifact (DOT, SVG, PNG).
	RenderKey(graphHash string, opts RenderKeyOpts) string

	// MetricsKey generates a key for a cached metrics report.
	MetricsKey(graphHash string, topK int) string
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RenderKey generates a key for a rendered artifact.
func (k *DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}

// MetricsKey generates a key for a cached metrics report.
func (k *DefaultKeyer) MetricsKey(graphHash string, topK int) string {
	return hashKey("metrics", graphHash, topK)
}

// NullCache disables caching: every lookup misses and writes are
// discarded. It stands in wherever a Cache is required but the
// deployment opts out (cache backend "none").
type NullCache struct{}

// NewNullCache creates a cache that stores nothing.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (NullCache) Delete(ctx context.Context, key string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
