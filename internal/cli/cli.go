// Package cli implements the stackinv command-line interface.
//
// # Commands
//
//   - build: load an inventory manifest, run analysis tasks, write the graph
//   - query: canned traversals over a built graph
//   - report: render summaries, tables and diagrams
//   - serve: read-only HTTP API over a built graph
//   - browse: interactive vertex browser
//   - history: list archived graph snapshots
//   - cache, config, completion: housekeeping
//
// Settings come from stackinv.toml (see package config); flags override it.
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackinv/pkg/archive"
	"github.com/matzehuels/stackinv/pkg/buildinfo"
	"github.com/matzehuels/stackinv/pkg/cache"
	"github.com/matzehuels/stackinv/pkg/codec"
	"github.com/matzehuels/stackinv/pkg/config"
	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/observability"
	"github.com/matzehuels/stackinv/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "stackinv"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		configPath: config.FileName,
		config:     config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stackinv builds and queries software inventory graphs",
		Long:         `Stackinv assembles domains, components, gateways, languages and frameworks into a property graph, enriches it with analysis tasks, and renders reports from it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", c.configPath, "config file")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file. The default file is optional; a path
// given with --config must exist.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath, !cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	c.config = cfg
	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.SetPipelineHooks(observability.LogPipelineHooks{Logger: c.Logger})
	}
	return nil
}

// =============================================================================
// Backends
// =============================================================================

// newCache opens the configured cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config.Cache
	if noCache || cfg.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.CacheRedis {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newArchive opens the configured archive. It returns nil when archiving is
// disabled.
func (c *CLI) newArchive(ctx context.Context) (archive.Archive, error) {
	cfg := c.config.Archive
	switch cfg.Backend {
	case config.ArchiveFile:
		return archive.NewFileArchive(cfg.Dir)
	case config.ArchiveMongo:
		return archive.NewMongoArchive(ctx, archive.MongoConfig{URI: cfg.MongoURI, Database: cfg.Database})
	}
	return nil, nil
}

// requireArchive is newArchive for commands that cannot work without one.
func (c *CLI) requireArchive(ctx context.Context) (archive.Archive, error) {
	a, err := c.newArchive(ctx)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no archive configured (set archive.backend in %s)", config.FileName)
	}
	return a, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: cache.dir from the config, else
// the XDG cache home (~/.cache/stackinv/).
func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// graphPath returns flag if set, else the configured graph path.
func (c *CLI) graphPath(flag string) string {
	if flag != "" {
		return flag
	}
	return c.config.Graph
}

// loadGraph reads a graph file written by build.
func loadGraph(path string) (*store.Store, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.New(errors.ErrCodeNotFound, "graph %s not found (run %s build first)", path, appName)
		}
		return nil, nil, err
	}
	s, err := codec.Unmarshal(data)
	if err != nil {
		return nil, nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return s, data, nil
}
