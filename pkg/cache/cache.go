// Package cache provides pluggable caching for pipeline stages.
//
// Three backends are available:
//   - FileCache: file-based cache for CLI usage (XDG cache dir)
//   - RedisCache: redis-backed cache for server deployments
//   - NullCache: no-op cache for tests or --no-cache runs
//
// Cache keys are derived by a Keyer from content hashes plus the options
// that influence each stage, so a changed vault, tag, or threshold never
// reuses a stale entry.
package cache

import (
	"context"
	"time"
)

// TTLs for the different pipeline stages.
const (
	// TTLScan is how long scan results (resolved items) are cached.
	// Vault contents change often, so this is short.
	TTLScan = 15 * time.Minute

	// TTLLayout is how long computed layouts are cached.
	TTLLayout = 24 * time.Hour

	// TTLArtifact is how long rendered artifacts are cached.
	TTLArtifact = 24 * time.Hour
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
