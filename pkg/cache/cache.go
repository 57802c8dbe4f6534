// Package cache stores encoded merge artifacts between invocations.
//
// # Backends
//
//   - [FileCache]: one file per entry under a local directory (CLI default)
//   - [RedisCache]: shared entries in Redis, for several machines exporting
//     the same inputs
//   - [NullCache]: stores nothing; used when caching is disabled
//
// # Keys
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes the content hashes of
// the inputs together with every option that affects the encoded bytes, so
// two exports share an entry only when they would produce identical files.
// [ScopedKeyer] prefixes keys to keep namespaces apart in a shared backend.
//
// Only exported artifacts are cached. Previews stay in memory.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long an encoded export stays cached.
const TTLArtifact = 24 * time.Hour

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
