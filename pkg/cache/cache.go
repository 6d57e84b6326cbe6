// Package cache stores rendered maze artifacts.
//
// Mazes are deterministic: a view of a given catalog, seed and viewport
// renders to the same bytes every time. The engine itself never forgets a
// tile, but its cache lives in one process; this package keeps finished
// artifacts (text frames, SVG tiles) across runs and across server
// instances.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [MongoCache]: document store with a TTL index
//   - [NullCache]: caching disabled
//
// [Open] picks a backend from [Options]. Wrap any backend with [Observe] to
// report hits, misses and writes through the observability hooks.
//
// # Keys
//
// A [Keyer] derives keys from the pattern catalog fingerprint and the
// request parameters, so changing the catalog never serves stale artifacts.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Default time-to-live values for cached artifacts.
const (
	TTLView = 24 * time.Hour
	TTLTile = 7 * 24 * time.Hour
)

// Cache is a byte-level key-value store with expiration.
type Cache interface {
	// Get returns the stored data. hit is false when the key is absent or
	// expired; that is not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys for the artifacts of the render pipeline.
type Keyer interface {
	// ViewKey returns the key of a rendered viewport.
	ViewKey(fingerprint string, opts ViewKeyOpts) string

	// TileKey returns the key of a rendered tile diagram.
	TileKey(fingerprint, coord string, opts TileKeyOpts) string
}

// ViewKeyOpts holds the parameters that affect a rendered viewport.
type ViewKeyOpts struct {
	Seed    uint32 `json:"seed"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Scale   int    `json:"scale"`
	Format  string `json:"format"`
	Styled  bool   `json:"styled,omitempty"`
	Markers string `json:"markers,omitempty"`
}

// TileKeyOpts holds the parameters that affect a rendered tile diagram.
type TileKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer hashes the key parameters under a fixed prefix per artifact.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ViewKey returns view:sha256(fingerprint, opts).
func (DefaultKeyer) ViewKey(fingerprint string, opts ViewKeyOpts) string {
	return hashKey("view", fingerprint, opts)
}

// TileKey returns tile:sha256(fingerprint, coord, opts).
func (DefaultKeyer) TileKey(fingerprint, coord string, opts TileKeyOpts) string {
	return hashKey("tile", fingerprint, coord, opts)
}

// hashKey returns artifact:sha256(json(parts)). The parts always start with
// the catalog fingerprint, so views and tiles rendered from a different
// pattern catalog never share a key.
func hashKey(artifact string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return artifact + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. Besides cache keys it names file
// cache entries and summarizes the markers drawn on a view.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
