package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/dagopt/pkg/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("cache backend = %q, want file", cfg.Cache.Backend)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9999"

[cache]
backend = "redis"
redis_addr = "redis.internal:6379"

[engine]
density_threshold = 0.25
top_k = 10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("server addr = %q, want :9999", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "redis.internal:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Engine.DensityThreshold != 0.25 || cfg.Engine.TopK != 10 {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	// Untouched sections keep their defaults.
	if cfg.Store.Backend != "file" {
		t.Errorf("store backend = %q, want file default", cfg.Store.Backend)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	badToml := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(badToml, []byte("not [valid"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(badToml); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad syntax: err = %v, want INVALID_FORMAT", err)
	}

	badBackend := filepath.Join(dir, "backend.toml")
	if err := os.WriteFile(badBackend, []byte("[cache]\nbackend = \"memcached\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(badBackend); !errors.Is(err, errors.ErrCodeMalformedInput) {
		t.Errorf("bad backend: err = %v, want MALFORMED_INPUT", err)
	}
}
