// Package observability lets a host process watch procdeck at work.
//
// The pipeline, the taggers and the caches report events through three
// small interfaces. Nothing is reported until a host installs its own
// implementation; until then every call lands on a no-op.
//
//	observability.SetCacheHooks(cacheCounter{})
//	defer observability.Reset()
//
// Hooks are read on every event, so install them before the first run and
// keep the implementations cheap and safe for concurrent use.
package observability

import (
	"context"
	"sync"
	"time"
)

// PolicyHooks sees one start and one complete event per policy page.
type PolicyHooks interface {
	OnPolicyStart(ctx context.Context, policy string)
	OnPolicyComplete(ctx context.Context, policy string, shapes, verbs int, duration time.Duration, err error)
}

// TaggerHooks sees every tagging call. cached marks tokens that came from
// the cache rather than the tagger itself.
type TaggerHooks interface {
	OnTag(ctx context.Context, tagger string, tokens int, cached bool, duration time.Duration, err error)
}

// CacheHooks sees lookups and writes, labelled with the backend name.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, backend string)
	OnCacheMiss(ctx context.Context, backend string)
	OnCacheSet(ctx context.Context, backend string, size int)
}

type (
	NoopPolicyHooks struct{}
	NoopTaggerHooks struct{}
	NoopCacheHooks  struct{}
)

func (NoopPolicyHooks) OnPolicyStart(context.Context, string)                                    {}
func (NoopPolicyHooks) OnPolicyComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopTaggerHooks) OnTag(context.Context, string, int, bool, time.Duration, error)           {}
func (NoopCacheHooks) OnCacheHit(context.Context, string)                                        {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)                                       {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)                                   {}

// registry is the installed set of hooks.
type registry struct {
	mu     sync.RWMutex
	policy PolicyHooks
	tagger TaggerHooks
	cache  CacheHooks
}

var installed = newRegistry()

func newRegistry() *registry {
	return &registry{policy: NoopPolicyHooks{}, tagger: NoopTaggerHooks{}, cache: NoopCacheHooks{}}
}

// set runs fn under the write lock.
func (r *registry) set(fn func(*registry)) {
	r.mu.Lock()
	fn(r)
	r.mu.Unlock()
}

// SetPolicyHooks installs h. A nil h leaves the current hooks in place.
func SetPolicyHooks(h PolicyHooks) {
	if h != nil {
		installed.set(func(r *registry) { r.policy = h })
	}
}

// SetTaggerHooks installs h. A nil h leaves the current hooks in place.
func SetTaggerHooks(h TaggerHooks) {
	if h != nil {
		installed.set(func(r *registry) { r.tagger = h })
	}
}

// SetCacheHooks installs h. A nil h leaves the current hooks in place.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		installed.set(func(r *registry) { r.cache = h })
	}
}

func Policy() PolicyHooks {
	installed.mu.RLock()
	defer installed.mu.RUnlock()
	return installed.policy
}

func Tagger() TaggerHooks {
	installed.mu.RLock()
	defer installed.mu.RUnlock()
	return installed.tagger
}

func Cache() CacheHooks {
	installed.mu.RLock()
	defer installed.mu.RUnlock()
	return installed.cache
}

// Reset puts the no-op hooks back.
func Reset() {
	installed.set(func(r *registry) {
		r.policy = NoopPolicyHooks{}
		r.tagger = NoopTaggerHooks{}
		r.cache = NoopCacheHooks{}
	})
}
