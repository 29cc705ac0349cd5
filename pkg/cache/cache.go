// Package cache stores leveled graphs, rendered artifacts and uploaded
// documents behind a small byte-oriented interface.
//
// # Backends
//
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the HTTP service
//   - [MongoCache]: durable document store for the HTTP service
//
// All backends honor a per-entry TTL; a zero TTL never expires.
//
// # Keys
//
// A [Keyer] derives cache keys. Leveling results are keyed by the hash of the
// canonical graph encoding plus the algorithm version, so a change to the
// leveling rules invalidates old entries without a manual flush.
package cache

import (
	"context"
	"fmt"
	"time"
)

// AlgorithmVersion is folded into level and render keys. Bump it whenever
// the leveling output for an unchanged input changes.
const AlgorithmVersion = 1

// Default entry lifetimes.
const (
	TTLLevel    = 7 * 24 * time.Hour
	TTLRender   = 7 * 24 * time.Hour
	TTLDocument = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys.
type Keyer interface {
	// LevelKey keys the leveled form of the graph with the given hash.
	LevelKey(graphHash string) string
	// RenderKey keys a rendered artifact of the leveled graph with the given hash.
	RenderKey(leveledHash string, opts RenderKeyOpts) string
	// DocumentKey keys an uploaded document.
	DocumentKey(id string) string
}

// RenderKeyOpts holds the options that change a rendered artifact.
type RenderKeyOpts struct {
	Format        string `json:"format"`
	Detailed      bool   `json:"detailed,omitempty"`
	HideBackEdges bool   `json:"hide_back_edges,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LevelKey(graphHash string) string {
	return hashKey("level", graphHash, AlgorithmVersion)
}

func (DefaultKeyer) RenderKey(leveledHash string, opts RenderKeyOpts) string {
	return hashKey("render:"+opts.Format, leveledHash, opts, AlgorithmVersion)
}

func (DefaultKeyer) DocumentKey(id string) string {
	return fmt.Sprintf("document:%s", id)
}

var _ Keyer = DefaultKeyer{}
