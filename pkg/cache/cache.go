// Package cache provides byte-oriented caching for clustering payloads,
// layouts and rendered artifacts.
//
// All backends implement [Cache]. Keys are produced by a [Keyer] so that the
// same inputs map to the same entry regardless of backend:
//
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: zstd-compressed files under the user cache directory
//   - [SQLiteCache]: a single SQLite file, handy for sharing between tools
//   - [RedisCache] and [MongoCache]: shared caches for the HTTP server
//
// Use [Open] to build the backend named in configuration.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized pipeline results.
//
// Get reports a miss with ok=false and a nil error. A ttl of zero on Set
// means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default TTLs for the entries the pipeline writes.
const (
	TTLClustering = 6 * time.Hour
	TTLLayout     = 7 * 24 * time.Hour
	TTLArtifact   = 7 * 24 * time.Hour
)
