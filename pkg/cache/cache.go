// Package cache provides memoization backends for pipeline artifacts.
//
// The pipeline is a pure function of its input and options, so an artifact
// can be stored under a key derived from both and served again without
// rebuilding the tree. Only encoded artifacts are cached; trees never outlive
// the call that built them.
//
// Backends:
//   - [NullCache]: never stores anything (the default)
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [MemoryCache]: a bounded in-process LRU, for a single server
//   - [RedisCache]: a shared Redis instance, for several servers
//
// Keys are produced by a [Keyer]; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the default lifetime of a cached artifact.
const TTLArtifact = 24 * time.Hour

// Cache stores opaque byte values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts are the pipeline options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Indent    bool   `json:"indent,omitempty"`
	Detailed  bool   `json:"detailed,omitempty"`
	Malformed string `json:"malformed"`
	Overflow  string `json:"overflow"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key for the artifact built from an input with
	// the given content hash.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey hashes the input hash together with the options.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}
