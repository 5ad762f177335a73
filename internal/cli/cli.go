// Package cli wires the procdeck commands together.
//
//	procdeck render <table>   draw the policy pages and write the combined outputs
//	procdeck policies         show which role each column plays in each policy
//	procdeck serve            upload tables and download decks over HTTP
//	procdeck cache clear|path manage the tagger cache
//
// Settings come from a TOML file (--config, or config.toml under the XDG
// config directory) and flags given on the command line take precedence.
// The logger travels in the command context; --verbose lowers its level to
// debug and turns on the cache and policy event lines.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/procdeck/pkg/buildinfo"
	"github.com/matzehuels/procdeck/pkg/cache"
	"github.com/matzehuels/procdeck/pkg/pipeline"
	"github.com/matzehuels/procdeck/pkg/tagger"
)

const (
	appName = "procdeck"

	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// Levels accepted by New and SetLogLevel.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI is the state the commands share: the logger and the loaded config.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand returns the procdeck command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Procdeck draws process tables as policy diagrams",
		Long:         `Procdeck reads a six-column process table (CSV or Excel) and draws one diagram page per policy, with the verbs of the process steps collected under each page.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			installDebugHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/procdeck/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.policiesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner backed by the prose tagger and the
// configured cache. The returned function releases the cache.
func (c *CLI) newRunner(ctx context.Context, opts pipeline.Options, noCache bool) (*pipeline.Runner, func(), error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	store := c.newCache(ctx, noCache)

	var cachedOpts []tagger.CachedOption
	if c.Config.Cache.TTL > 0 {
		cachedOpts = append(cachedOpts, tagger.WithTTL(c.Config.Cache.TTL))
	}
	if p := c.Config.Cache.Redis.Prefix; p != "" && c.Config.Cache.Backend == cacheBackendRedis {
		cachedOpts = append(cachedOpts, tagger.WithKeyer(cache.NewScopedKeyer(nil, p)))
	}
	t := tagger.NewCached(tagger.NewProse(), store, c.Logger, cachedOpts...)

	return pipeline.NewRunner(opts, t, c.Logger), func() { _ = store.Close() }, nil
}

// newCache opens the configured cache backend. A backend that cannot be
// opened degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	cfg := c.Config.Cache
	switch cfg.Backend {
	case cacheBackendNone:
		return cache.NewNullCache()
	case cacheBackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, tagging without cache", "err", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		fc, err := c.fileCache()
		if err != nil {
			c.Logger.Warn("file cache unavailable, tagging without cache", "err", err)
			return cache.NewNullCache()
		}
		return fc
	}
}

func (c *CLI) fileCache() (*cache.FileCache, error) {
	dir, err := c.cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory, or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/procdeck/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/procdeck/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
