// Package config loads stackinv.toml.
//
// A config file is optional. Missing keys take the values from [Default], and
// command-line flags override whatever the file sets:
//
//	inventory = "inventory.yaml"
//	graph     = "build/graph.json"
//	workers   = 8
//	tasks     = ["ownership", "gateways"]
//
//	[cache]
//	backend = "redis"
//	ttl     = "24h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[archive]
//	backend   = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//	database  = "stackinv"
package config

import (
	"bytes"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/pipeline"
)

// FileName is the config file looked up in the working directory.
const FileName = "stackinv.toml"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Archive backends.
const (
	ArchiveNone  = "none"
	ArchiveFile  = "file"
	ArchiveMongo = "mongo"
)

// Config is the full configuration.
type Config struct {
	Inventory string        `toml:"inventory"`
	Graph     string        `toml:"graph"`
	ReportDir string        `toml:"report_dir"`
	Workers   int           `toml:"workers"`
	Tasks     []string      `toml:"tasks"`
	Cache     CacheConfig   `toml:"cache"`
	Archive   ArchiveConfig `toml:"archive"`
	Server    ServerConfig  `toml:"server"`
}

// CacheConfig selects the report cache backend.
type CacheConfig struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"` // file backend; empty means the user cache dir
	TTL     time.Duration `toml:"ttl"`
	Redis   RedisConfig   `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// ArchiveConfig selects where built graphs are archived.
type ArchiveConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Inventory: "inventory.yaml",
		Graph:     "graph.json",
		ReportDir: "reports",
		Workers:   pipeline.DefaultWorkers,
		Tasks:     slices.Clone(pipeline.DefaultTasks),
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     24 * time.Hour,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "stackinv:"},
		},
		Archive: ArchiveConfig{
			Backend:  ArchiveNone,
			Dir:      "archive",
			Database: "stackinv",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults and validates the result. A missing file
// is not an error when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && optional {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.New(errors.ErrCodeNotFound, "config file %s not found", path)
		}
		return cfg, err
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return cfg, nil
}

// Decode parses TOML data into cfg and validates it. Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// Validate checks value ranges and backend names.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be at least 1, got %d", c.Workers)
	}
	if _, err := pipeline.Resolve(c.Tasks); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis cache needs cache.redis.addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	switch c.Archive.Backend {
	case ArchiveNone:
	case ArchiveFile:
		if c.Archive.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "file archive needs archive.dir")
		}
	case ArchiveMongo:
		if c.Archive.MongoURI == "" || c.Archive.Database == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "mongo archive needs archive.mongo_uri and archive.database")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown archive backend %q", c.Archive.Backend)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
