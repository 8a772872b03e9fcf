// Package cache stores built adjacency graphs between runs.
//
// A [Cache] is a byte-oriented key/value store with optional expiry. The
// pipeline serializes graphs itself and only asks the cache for raw bytes,
// so every backend is interchangeable:
//
//   - [FileCache]: one file per entry under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for several machines building
//     from the same voxel archives
//   - [NullCache]: disables caching (--no-cache)
//
// Keys come from a [Keyer]. [DefaultKeyer] derives them from a hash of the
// input file contents plus every option that changes the resulting graph.
package cache

import (
	"context"
	"time"
)

// TTLGraph is how long a built graph stays cached. Graphs are a pure
// function of the input bytes and options, so the TTL only bounds disk use.
const TTLGraph = 30 * 24 * time.Hour

// Cache is a byte store keyed by strings.
type Cache interface {
	// Get returns the cached data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// GraphKeyOpts lists the build options that change a cached graph.
type GraphKeyOpts struct {
	Boundary string `json:"boundary"`
	Phases   int    `json:"phases"`
}

// Keyer generates cache keys.
type Keyer interface {
	// GraphKey returns the key of the graph built from the input whose
	// content hash is inputHash.
	GraphKey(inputHash string, opts GraphKeyOpts) string
}

// graphFormatVersion is bumped whenever the cached payload layout changes.
const graphFormatVersion = 1

// DefaultKeyer hashes the input hash, options and payload version.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey implements [Keyer].
func (DefaultKeyer) GraphKey(inputHash string, opts GraphKeyOpts) string {
	return hashKey("graph", graphFormatVersion, inputHash, opts)
}
