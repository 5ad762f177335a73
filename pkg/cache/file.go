package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/procdeck/pkg/observability"
)

const fileBackend = "file"

// FileCache keeps one JSON document per key below a root directory. The
// first two hex digits of the key hash name the shard directory.
type FileCache struct {
	dir string
}

// NewFileCache opens, and if needed creates, a cache rooted at dir.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// envelope is the on-disk form of an entry. A zero Expires never expires.
type envelope struct {
	Data    []byte    `json:"data"`
	Expires time.Time `json:"expires_at"`
}

func (e envelope) expired(now time.Time) bool {
	return !e.Expires.IsZero() && now.After(e.Expires)
}

func (c *FileCache) Dir() string { return c.dir }

// Get reads the entry for key. Unreadable JSON and expired entries are
// deleted on sight and count as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	p := c.path(key)
	raw, err := os.ReadFile(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c.miss(ctx)
	case err != nil:
		return nil, false, err
	}

	var env envelope
	if json.Unmarshal(raw, &env) != nil || env.expired(time.Now()) {
		_ = os.Remove(p)
		return c.miss(ctx)
	}
	observability.Cache().OnCacheHit(ctx, fileBackend)
	return env.Data, true, nil
}

func (c *FileCache) miss(ctx context.Context) ([]byte, bool, error) {
	observability.Cache().OnCacheMiss(ctx, fileBackend)
	return nil, false, nil
}

// Set writes data under key through a temporary file, so a concurrent Get
// sees either the old entry or the new one.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	env := envelope{Data: data}
	if ttl > 0 {
		env.Expires = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}

	p := c.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".entry-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, fileBackend, len(data))
	return nil
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear deletes every entry file and then the shard directories left
// empty. It reports how many entries were deleted.
func (c *FileCache) Clear() (int, error) {
	var removed int
	var shards []string
	err := filepath.WalkDir(c.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == c.dir {
				return fs.SkipAll
			}
			return err
		}
		switch {
		case p == c.dir:
		case d.IsDir():
			shards = append(shards, p)
		case os.Remove(p) == nil:
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, err
	}
	for _, s := range shards {
		_ = os.Remove(s)
	}
	return removed, nil
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(c.dir, sum[:2], sum[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
