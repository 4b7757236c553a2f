// Package config loads the application configuration from a TOML file.
// Every field has a sensible default, so a missing file is not an error;
// the CLI works out of the box and deployments override only what they
// need.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dagopt/pkg/errors"
)

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Export ExportConfig `toml:"export"`
	Engine EngineConfig `toml:"engine"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `toml:"addr"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the cache directory for the file backend.
	Dir string `toml:"dir"`

	// RedisAddr is the Redis address for the redis backend.
	RedisAddr string `toml:"redis_addr"`

	// KeyPrefix namespaces cache keys, so several deployments can share
	// one Redis instance.
	KeyPrefix string `toml:"key_prefix"`
}

// StoreConfig selects where optimization runs are persisted.
type StoreConfig struct {
	// Backend is one of "file", "mongo", or "none".
	Backend string `toml:"backend"`

	// Dir is the run directory for the file backend.
	Dir string `toml:"dir"`

	// MongoURI and MongoDatabase configure the mongo backend.
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ExportConfig configures the graph-database export.
type ExportConfig struct {
	Neo4jURI      string `toml:"neo4j_uri"`
	Neo4jUser     string `toml:"neo4j_user"`
	Neo4jPassword string `toml:"neo4j_password"`
}

// EngineConfig tunes the optimization engine.
type EngineConfig struct {
	// DensityThreshold is the density below which the sparse reduction
	// variant runs. Zero keeps the built-in default.
	DensityThreshold float64 `toml:"density_threshold"`

	// TopK bounds the bottleneck list in metric reports. Zero keeps the
	// built-in default.
	TopK int `toml:"top_k"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Cache:  CacheConfig{Backend: "file", Dir: defaultDir("cache"), RedisAddr: "localhost:6379"},
		Store:  StoreConfig{Backend: "file", Dir: defaultDir("runs"), MongoDatabase: "dagopt"},
		Export: ExportConfig{Neo4jURI: "bolt://localhost:7687", Neo4jUser: "neo4j"},
	}
}

// DefaultPath returns the standard config location,
// ~/.config/dagopt/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "dagopt", "config.toml")
}

// Load reads the configuration at path, applying defaults for anything
// the file does not set. A missing file returns the defaults; a file
// that exists but does not parse is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeMalformedInput, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "file", "mongo", "none":
	default:
		return errors.New(errors.ErrCodeMalformedInput, "unknown store backend %q", c.Store.Backend)
	}
	if c.Engine.DensityThreshold < 0 || c.Engine.DensityThreshold > 1 {
		return errors.New(errors.ErrCodeMalformedInput, "density threshold must be in [0, 1]")
	}
	return nil
}

// defaultDir places application data under the user cache directory.
func defaultDir(sub string) string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".dagopt", sub)
	}
	return filepath.Join(base, "dagopt", sub)
}
