package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/dagopt/pkg/errors"
)

// FileStore persists each run as one JSON file in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed run store in the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "creating run directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the run as indented JSON, replacing any previous file.
func (s *FileStore) Save(ctx context.Context, run *Run) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encoding run %s", run.ID)
	}
	if err := os.WriteFile(s.path(run.ID), data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "writing run %s", run.ID)
	}
	return nil
}

// Load reads a run by ID.
func (s *FileStore) Load(ctx context.Context, id string) (*Run, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeRunNotFound, "run %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "reading run %s", id)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decoding run %s", id)
	}
	return &run, nil
}

// List returns the stored run IDs, newest first by file modification time.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing runs")
	}

	type item struct {
		id  string
		mod int64
	}
	var items []item
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, item{
			id:  strings.TrimSuffix(e.Name(), ".json"),
			mod: info.ModTime().UnixNano(),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].mod > items[j].mod })

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error { return nil }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
