package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type countingCache struct {
	NoopCacheHooks
	mu   sync.Mutex
	hits map[string]int
}

func (c *countingCache) OnCacheHit(_ context.Context, backend string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits[backend]++
}

type recordingPolicy struct {
	NoopPolicyHooks
	done []string
}

func (r *recordingPolicy) OnPolicyComplete(_ context.Context, policy string, _, _ int, _ time.Duration, err error) {
	if err != nil {
		policy += "!"
	}
	r.done = append(r.done, policy)
}

type taggerSpy struct{ NoopTaggerHooks }

func TestDefaultsAreNoops(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	Policy().OnPolicyStart(ctx, "A")
	Policy().OnPolicyComplete(ctx, "C", 0, 0, time.Second, errors.New("boom"))
	Tagger().OnTag(ctx, "prose", 4, false, time.Millisecond, nil)
	Cache().OnCacheSet(ctx, "file", 1024)

	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
}

func TestInstalledHooksReceiveEvents(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	cache := &countingCache{hits: map[string]int{}}
	policy := &recordingPolicy{}
	SetCacheHooks(cache)
	SetPolicyHooks(policy)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Cache().OnCacheHit(ctx, "redis")
		}()
	}
	wg.Wait()
	Policy().OnPolicyComplete(ctx, "A", 12, 4, time.Millisecond, nil)
	Policy().OnPolicyComplete(ctx, "D", 0, 0, time.Millisecond, errors.New("row 1 missing"))

	if cache.hits["redis"] != 8 {
		t.Errorf("redis hits = %d, want 8", cache.hits["redis"])
	}
	if len(policy.done) != 2 || policy.done[0] != "A" || policy.done[1] != "D!" {
		t.Errorf("completed = %v, want [A D!]", policy.done)
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)

	spy := &taggerSpy{}
	SetTaggerHooks(spy)
	SetTaggerHooks(nil)
	if Tagger() != spy {
		t.Errorf("Tagger() = %T after SetTaggerHooks(nil)", Tagger())
	}

	Reset()
	if _, ok := Tagger().(NoopTaggerHooks); !ok {
		t.Errorf("Tagger() = %T after Reset", Tagger())
	}
}
