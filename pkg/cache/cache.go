// Package cache stores rendered reports and built graphs between runs.
//
// Entries are opaque byte slices addressed by string keys. Keys are built by
// a [Keyer] from content hashes, so a changed inventory or graph never hits a
// stale entry:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ReportKey(cache.Hash(graphJSON), "markdown")
//	data, hit, err := cache.Fetch(ctx, c, key, "report", time.Hour, render)
//
// # Backends
//
//   - [FileCache]: one JSON file per entry below a directory (CLI default)
//   - [RedisCache]: a shared Redis instance
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/stackinv/pkg/observability"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Fetch returns the entry for key, computing and storing it on a miss.
// keyType labels the entry for cache hooks. A failing cache read is treated
// as a miss and a failing write is ignored; only compute errors are returned.
func Fetch(ctx context.Context, c Cache, key, keyType string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()
	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, keyType)
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err := compute()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}

// Keyer builds cache keys.
type Keyer interface {
	// GraphKey addresses the enriched graph built from a manifest with the
	// given tasks.
	GraphKey(manifestHash string, tasks []string) string

	// ReportKey addresses a report of the given kind rendered from a graph.
	ReportKey(graphHash, kind string) string
}

// DefaultKeyer builds keys of the form "type:sha256(parts)".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(manifestHash string, tasks []string) string {
	return hashKey("graph", manifestHash, tasks)
}

// ReportKey implements Keyer.
func (DefaultKeyer) ReportKey(graphHash, kind string) string {
	return hashKey("report", graphHash, kind)
}
