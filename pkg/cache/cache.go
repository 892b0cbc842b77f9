// Package cache stores rendered exports and built trees so repeated requests
// for the same document skip parsing and rendering.
//
// Entries are opaque byte slices under string keys. Keys are content
// addressed: they embed the SHA-256 of the source document plus a hash of
// the render options, so a changed document or option never hits a stale
// entry and entries can be shared between sessions.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for several server instances
//   - [MongoCache]: a collection with a TTL index
//   - [NullCache]: caching disabled
//
// Use [Open] to construct the backend named in configuration.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLTree     = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry TTL.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Fetch is Get with a miss reported as ErrCacheMiss.
func Fetch(ctx context.Context, c Cache, key string) ([]byte, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}

// Keyer generates cache keys.
type Keyer interface {
	// DocumentKey returns the key of the node/edge JSON built from a source.
	DocumentKey(sourceHash string) string

	// ArtifactKey returns the key of an export rendered from a source.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an export's bytes.
type ArtifactKeyOpts struct {
	Format      string   `json:"format"`
	Theme       string   `json:"theme,omitempty"`
	Highlighted []string `json:"highlighted,omitempty"`
	Collapsed   []string `json:"collapsed,omitempty"`
	Values      bool     `json:"values,omitempty"`
}

// DefaultKeyer produces unscoped keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey implements Keyer.
func (DefaultKeyer) DocumentKey(sourceHash string) string {
	return hashKey("tree", sourceHash)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}

var _ Keyer = DefaultKeyer{}
