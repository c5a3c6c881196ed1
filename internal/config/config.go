// Package config loads and validates the pathlens configuration file.
//
// Configuration is TOML, looked up from an explicit --config path, then
// ./pathlens.toml, then ~/.config/pathlens/config.toml. Every field has a
// default, so a missing file yields a fully working configuration; CLI flags
// override file values at the command layer.
//
// # Example
//
//	dataset = "data/roadmap.json"
//
//	[server]
//	listen = ":8080"
//	base_url = "https://paths.example.com"
//	metrics = true
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[views]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/pathlens/pathlens/pkg/cache"
	pkgerrors "github.com/pathlens/pathlens/pkg/errors"
	"github.com/pathlens/pathlens/pkg/viewstore"
)

// Cache backend names accepted in [cache].backend.
const (
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// View store backend names accepted in [views].backend.
const (
	ViewsMemory = "memory"
	ViewsFile   = "file"
	ViewsMongo  = "mongo"
)

// DefaultListen is the default server listen address.
const DefaultListen = ":8080"

// ValidCacheBackends is the set of supported cache backends.
var ValidCacheBackends = map[string]bool{
	CacheMemory: true,
	CacheFile:   true,
	CacheRedis:  true,
	CacheNone:   true,
}

// ValidViewBackends is the set of supported view store backends.
var ValidViewBackends = map[string]bool{
	ViewsMemory: true,
	ViewsFile:   true,
	ViewsMongo:  true,
}

// Config is the full pathlens configuration.
type Config struct {
	// Dataset is the default dataset reference (file path or URL) used when
	// a command does not pass its own.
	Dataset string `toml:"dataset"`

	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Views  ViewsConfig  `toml:"views"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	// Listen is the address the server binds to.
	Listen string `toml:"listen"`

	// BaseURL is the public base for generated share links. Empty means
	// links are emitted as bare query strings.
	BaseURL string `toml:"base_url"`

	// Metrics exposes /metrics when true.
	Metrics bool `toml:"metrics"`

	// VisitBudget caps focus traversals. Zero keeps the pipeline default;
	// negative disables the cap.
	VisitBudget int `toml:"visit_budget"`
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty means the user cache dir.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ViewsConfig selects and configures the saved-view store backend.
type ViewsConfig struct {
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty means ~/.config/pathlens/views.
	Dir string `toml:"dir"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Listen:  DefaultListen,
			Metrics: true,
		},
		Cache: CacheConfig{
			Backend:   CacheMemory,
			RedisAddr: "localhost:6379",
		},
		Views: ViewsConfig{
			Backend:       ViewsFile,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "pathlens",
		},
	}
}

// Load reads the configuration from path. An empty path falls back to the
// standard locations; if no file exists anywhere, the defaults are returned.
// Omitted keys keep their defaults, so a file only has to name what differs.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns the first existing config file among the standard
// locations, or "" when none exists.
func DefaultPath() string {
	if _, err := os.Stat("pathlens.toml"); err == nil {
		return "pathlens.toml"
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "pathlens", "config.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// ValidateAndSetDefaults fills empty fields and rejects unknown backends.
func (c *Config) ValidateAndSetDefaults() error {
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheMemory
	}
	if c.Views.Backend == "" {
		c.Views.Backend = ViewsFile
	}

	if !ValidCacheBackends[c.Cache.Backend] {
		return fmt.Errorf("invalid cache backend: %q (must be one of: memory, file, redis, none)", c.Cache.Backend)
	}
	if !ValidViewBackends[c.Views.Backend] {
		return fmt.Errorf("invalid views backend: %q (must be one of: memory, file, mongo)", c.Views.Backend)
	}
	if c.Server.BaseURL != "" {
		if err := pkgerrors.ValidateBaseURL(c.Server.BaseURL); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForServe checks the fields the serve command depends on.
func (c *Config) ValidateForServe() error {
	if err := c.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if c.Dataset == "" {
		return fmt.Errorf("dataset is required (set it in the config file or pass --dataset)")
	}
	return nil
}

// OpenCache constructs the configured cache backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheMemory:
		return cache.NewMemoryCache(), nil
	case CacheFile:
		dir := c.Cache.Dir
		if dir == "" {
			base, err := os.UserCacheDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
			dir = filepath.Join(base, "pathlens")
		}
		return cache.NewFileCache(dir)
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}
}

// OpenViewStore constructs the configured saved-view store backend.
func (c Config) OpenViewStore(ctx context.Context) (viewstore.Store, error) {
	switch c.Views.Backend {
	case ViewsMemory:
		return viewstore.NewMemoryStore(), nil
	case ViewsFile:
		return viewstore.NewFileStore(c.Views.Dir)
	case ViewsMongo:
		return viewstore.NewMongoStore(ctx, viewstore.MongoConfig{
			URI:      c.Views.MongoURI,
			Database: c.Views.MongoDatabase,
		})
	default:
		return nil, fmt.Errorf("unknown views backend: %q", c.Views.Backend)
	}
}
