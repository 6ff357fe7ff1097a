// Package cache stores rendered artifacts so repeated renders of the same
// frame skip Graphviz.
//
// Keys come from a [Keyer] and are derived from the DOT source hash plus the
// output format, so a cache entry is valid for exactly one picture:
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().RenderKey(cache.Hash([]byte(dot)), cache.RenderKeyOpts{Format: "svg"})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
//
// [NullCache] disables caching without changing call sites.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
