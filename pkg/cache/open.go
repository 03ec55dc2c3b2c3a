package cache

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// SharedPrefix namespaces keys in shared backends.
const SharedPrefix = "teamtree:v1:"

// Config selects and configures a backend.
type Config struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	SQLitePath    string `toml:"sqlite_path"`
	RedisAddr     string `toml:"redis_addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Open builds the configured backend and a matching keyer. Shared
// backends get a [ScopedKeyer] under [SharedPrefix]. An empty backend
// name means "file".
func Open(ctx context.Context, cfg Config) (Cache, Keyer, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendNone:
		return NewNullCache(), NewDefaultKeyer(), nil
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, nil, fmt.Errorf("%w: cache dir", ErrMissingConfig)
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return c, NewDefaultKeyer(), nil
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return nil, nil, fmt.Errorf("%w: sqlite path", ErrMissingConfig)
		}
		c, err := NewSQLiteCache(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return c, NewDefaultKeyer(), nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return c, NewScopedKeyer(nil, SharedPrefix), nil
	case BackendMongo:
		c, err := NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return c, NewScopedKeyer(nil, SharedPrefix), nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendFile, BackendNone, BackendSQLite, BackendRedis, BackendMongo}
}
