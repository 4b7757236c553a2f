package cli

import (
	"context"

	"github.com/matzehuels/dagopt/pkg/cache"
	"github.com/matzehuels/dagopt/pkg/config"
	"github.com/matzehuels/dagopt/pkg/errors"
	"github.com/matzehuels/dagopt/pkg/store"
)

// newStore builds the run store named by the configuration. The "none"
// backend returns a nil store, which disables run persistence.
func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "file":
		return store.NewFileStore(cfg.Store.Dir)
	case "mongo":
		return store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
	case "none":
		return nil, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", cfg.Store.Backend)
	}
}

// newCache builds the artifact cache named by the configuration.
func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "file":
		return cache.NewFileCache(cfg.Cache.Dir)
	case "redis":
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown cache backend %q", cfg.Cache.Backend)
	}
}
