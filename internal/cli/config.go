package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/procdeck/internal/server"
	errs "github.com/matzehuels/procdeck/pkg/errors"
	"github.com/matzehuels/procdeck/pkg/pipeline"
)

// configFileName is the file looked up in the config directory.
const configFileName = "config.toml"

// Config is the on-disk configuration of procdeck.
//
//	[canvas]
//	width = 720.0
//	height = 540.0
//	units_per_inch = 72.0
//
//	[output]
//	formats = ["pdf", "json"]
//	dir = "out"
//
//	[cache]
//	backend = "redis"   # file | redis | none
//	ttl = "720h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = "127.0.0.1:8080"
//	upload_dir = "uploads"
type Config struct {
	Canvas CanvasConfig `toml:"canvas"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CanvasConfig sets the page size in canvas units.
type CanvasConfig struct {
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	UnitsPerInch float64 `toml:"units_per_inch"`
}

// OutputConfig sets what a render writes and where.
type OutputConfig struct {
	Formats  []string `toml:"formats"`
	Policies []string `toml:"policies"`

	// Dir receives the outputs. Empty writes next to the input table.
	Dir string `toml:"dir"`
}

// CacheConfig selects the tagger cache.
type CacheConfig struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
	Redis   RedisConfig   `toml:"redis"`
}

// RedisConfig locates a shared redis cache.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	// Prefix scopes the cache keys, so that deployments can share a server.
	Prefix string `toml:"prefix"`
}

// ServerConfig configures `procdeck serve`.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	UploadDir   string `toml:"upload_dir"`
	MaxUploadMB int64  `toml:"max_upload_mb"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Canvas: CanvasConfig{
			Width:        pipeline.DefaultWidth,
			Height:       pipeline.DefaultHeight,
			UnitsPerInch: pipeline.DefaultUnitsPerInch,
		},
		Output: OutputConfig{
			Formats: slices.Clone(pipeline.DefaultFormats),
		},
		Cache: CacheConfig{
			Backend: cacheBackendFile,
		},
		Server: ServerConfig{
			Addr:      server.DefaultAddr,
			UploadDir: "uploads",
		},
	}
}

// LoadConfig reads the configuration at path on top of the defaults. An
// empty path looks up the default location, where a missing file is not
// an error. An explicitly named file must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFileName)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that the pipeline options do not cover.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", cacheBackendFile, cacheBackendRedis, cacheBackendNone:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.Backend == cacheBackendRedis && c.Cache.Redis.Addr == "" {
		return errs.New(errs.ErrCodeInvalidInput, "cache backend redis needs [cache.redis] addr")
	}
	if c.Cache.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "cache ttl must not be negative, got %s", c.Cache.TTL)
	}
	opts := c.PipelineOptions()
	return opts.ValidateAndSetDefaults()
}

// PipelineOptions returns the run options described by the file.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Width:        c.Canvas.Width,
		Height:       c.Canvas.Height,
		UnitsPerInch: c.Canvas.UnitsPerInch,
		Formats:      slices.Clone(c.Output.Formats),
		Policies:     slices.Clone(c.Output.Policies),
	}
}

// serverConfig returns the server settings described by the file.
func (c Config) serverConfig() server.Config {
	return server.Config{
		Addr:           c.Server.Addr,
		UploadDir:      c.Server.UploadDir,
		MaxUploadBytes: c.Server.MaxUploadMB << 20,
	}
}
