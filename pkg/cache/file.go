package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileCache keeps artifacts on local disk. It backs the default setup,
// where rendered graphs and metric reports should survive a process
// restart without requiring an external service.
//
// Each entry lives in its own JSON file under a two-level fan-out
// derived from the key hash, so a large artifact set never piles up in
// a single directory.
type FileCache struct {
	root string
}

// NewFileCache opens a cache rooted at dir, creating it when missing.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{root: dir}, nil
}

// artifact is the on-disk envelope around a cached payload.
type artifact struct {
	Payload  []byte    `json:"payload"`
	Deadline time.Time `json:"deadline,omitempty"`
}

func (a artifact) expired() bool {
	return !a.Deadline.IsZero() && time.Now().After(a.Deadline)
}

// Get loads the artifact stored under key. Expired or unreadable
// entries are removed and reported as misses, never as errors.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.entryPath(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil || a.expired() {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return a.Payload, true, nil
}

// Set stores the artifact under key. A zero ttl keeps it until the
// next Delete.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	a := artifact{Payload: data}
	if ttl > 0 {
		a.Deadline = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}

	path := c.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Delete drops the artifact under key, if present.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.entryPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op; no handles stay open between calls.
func (c *FileCache) Close() error {
	return nil
}

// entryPath maps a key to its file. Keys are hashed first, so
// caller-supplied key material never reaches the filesystem verbatim.
func (c *FileCache) entryPath(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(c.root, sum[:2], sum[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
