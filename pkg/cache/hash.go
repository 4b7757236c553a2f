package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/dagopt/pkg/dag"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GraphHash computes a content hash over a graph's nodes, edges, and
// tags in their canonical ordering, so structurally identical graphs
// share cache entries regardless of how they were built.
func GraphHash(g *dag.DAG) string {
	h := sha256.New()
	for _, id := range g.Nodes() {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	for _, e := range g.Edges() {
		h.Write([]byte(e.From))
		h.Write([]byte{1})
		h.Write([]byte(e.To))
		for _, tag := range e.Tags {
			h.Write([]byte{2})
			h.Write([]byte(tag))
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
