// Package cache provides the byte-level cache behind procdeck's tagger.
//
// Part-of-speech tagging is the only expensive step of a diagram run, and
// the same cell text shows up in every policy that scans it. The tagger
// decorator in package tagger stores tagged tokens here, keyed by a hash
// of the cell text.
//
// Three backends are provided:
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// TTLTags is how long tagged tokens stay cached. Tagger output for a given
// text never changes for a given model, so the TTL only bounds disk growth.
const TTLTags = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A missing or expired entry is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
