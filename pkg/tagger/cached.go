package tagger

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/procdeck/pkg/cache"
	"github.com/matzehuels/procdeck/pkg/observability"
)

// Cached wraps a Tagger with a cache of its output.
//
// Cache failures never fail a Tag call: a broken read falls through to the
// inner tagger and a broken write is logged at debug level. Errors from the
// inner tagger are returned unchanged and never cached.
type Cached struct {
	inner  Tagger
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// CachedOption configures a Cached tagger.
type CachedOption func(*Cached)

// WithKeyer overrides the default keyer (e.g. to scope keys per deployment).
func WithKeyer(k cache.Keyer) CachedOption { return func(c *Cached) { c.keyer = k } }

// WithTTL overrides [cache.TTLTags].
func WithTTL(ttl time.Duration) CachedOption { return func(c *Cached) { c.ttl = ttl } }

// NewCached returns inner backed by c. A nil cache disables caching and a
// nil logger discards cache diagnostics.
func NewCached(inner Tagger, c cache.Cache, logger *log.Logger, opts ...CachedOption) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	t := &Cached{
		inner:  inner,
		cache:  c,
		keyer:  cache.NewDefaultKeyer(),
		ttl:    cache.TTLTags,
		logger: logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements Named, reporting the inner backend.
func (c *Cached) Name() string { return nameOf(c.inner) }

// Tag returns cached tokens for text, tagging and storing them on a miss.
func (c *Cached) Tag(ctx context.Context, text string) ([]Token, error) {
	key := c.keyer.TagKey(c.Name(), text)
	start := time.Now()

	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Debug("tag cache read failed", "err", err)
	}
	if hit {
		var tokens []Token
		if err := json.Unmarshal(data, &tokens); err == nil {
			observability.Tagger().OnTag(ctx, c.Name(), len(tokens), true, time.Since(start), nil)
			return tokens, nil
		}
		_ = c.cache.Delete(ctx, key)
	}

	tokens, err := c.inner.Tag(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(tokens); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Debug("tag cache write failed", "err", err)
		}
	}
	return tokens, nil
}
