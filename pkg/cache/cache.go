// Package cache provides the caching layer shared by the CLI and the
// HTTP API.
//
// Parsing a venue map and building its routing graph is cheap but not
// free, and server deployments answer many route requests against the
// same map. The cache stores opaque byte payloads under content-derived
// keys with optional TTLs:
//   - FileCache: directory-backed cache for CLI usage
//   - RedisCache: Redis-backed cache for multi-instance server deployments
//   - NullCache: no-op cache for tests or --no-cache runs
//
// Keys are produced by a Keyer so that all components agree on the key
// layout. Graph keys hash the raw map content; route keys combine the
// graph hash with the endpoint pair.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached payloads.
const (
	// DefaultGraphTTL is how long built graphs stay cached. Venue maps
	// change rarely; a day keeps redeploys cheap without going stale.
	DefaultGraphTTL = 24 * time.Hour

	// DefaultRouteTTL is how long computed routes stay cached.
	DefaultRouteTTL = time.Hour
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether
	// the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the wayfinding pipeline.
type Keyer interface {
	// GraphKey returns the key for a built graph, derived from the
	// content hash of the venue map.
	GraphKey(mapHash string) string

	// RouteKey returns the key for a computed route.
	RouteKey(mapHash string, startID, goalID int64) string
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// GraphKey generates a key for a built graph.
func (k *DefaultKeyer) GraphKey(mapHash string) string {
	return hashKey("graph", mapHash)
}

// RouteKey generates a key for a computed route.
func (k *DefaultKeyer) RouteKey(mapHash string, startID, goalID int64) string {
	return hashKey("route", mapHash, startID, goalID)
}

// ScopedKeyer wraps a Keyer with a prefix for multi-venue isolation.
// Useful in server deployments where several venues share one Redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GraphKey generates a prefixed key for a built graph.
func (k *ScopedKeyer) GraphKey(mapHash string) string {
	return k.prefix + k.inner.GraphKey(mapHash)
}

// RouteKey generates a prefixed key for a computed route.
func (k *ScopedKeyer) RouteKey(mapHash string, startID, goalID int64) string {
	return k.prefix + k.inner.RouteKey(mapHash, startID, goalID)
}
