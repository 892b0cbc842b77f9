// Package config loads jsontree settings from a TOML file and JSONTREE_*
// environment variables.
//
// Precedence, lowest first: [Default], the config file, the environment,
// command-line flags (applied by the CLI).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jsontree/pkg/cache"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/session"
	"github.com/matzehuels/jsontree/pkg/view"
)

// Config holds all settings.
type Config struct {
	View   ViewConfig   `toml:"view"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// ViewConfig sets the initial state of new sessions.
type ViewConfig struct {
	Theme      string `toml:"theme"`       // dark | light
	SearchMode string `toml:"search_mode"` // literal | pattern
}

// CacheConfig selects the export cache backend.
type CacheConfig struct {
	Backend       string   `toml:"backend"` // file | redis | mongo | none
	Dir           string   `toml:"dir,omitempty"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password,omitempty"`
	RedisDB       int      `toml:"redis_db"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
}

// ServerConfig configures "jsontree serve".
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	SessionTTL      Duration `toml:"session_ttl"`
	CleanupInterval Duration `toml:"cleanup_interval"`
}

// Duration is a time.Duration written as a Go duration string ("90m").
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		View: ViewConfig{
			Theme:      string(render.DefaultTheme),
			SearchMode: string(view.ModeLiteral),
		},
		Cache: CacheConfig{
			Backend:       cache.BackendFile,
			TTL:           Duration{cache.TTLArtifact},
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: cache.DefaultMongoDatabase,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			SessionTTL:      Duration{session.DefaultTTL},
			CleanupInterval: Duration{5 * time.Minute},
		},
	}
}

// Dir returns the configuration directory, honouring XDG_CONFIG_HOME.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "jsontree")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path over the defaults. A missing file is not an error.
// Unknown keys are rejected so typos do not pass silently.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parse %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Validate checks enumerated values and durations.
func (c *Config) Validate() error {
	if _, err := render.ParseTheme(c.View.Theme); err != nil {
		return fmt.Errorf("view.theme: %w", err)
	}
	if _, err := view.ParseMode(c.View.SearchMode); err != nil {
		return fmt.Errorf("view.search_mode: %w", err)
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache.ttl: must not be negative")
	}
	if c.Server.SessionTTL.Duration <= 0 {
		return fmt.Errorf("server.session_ttl: must be positive")
	}
	if c.Server.CleanupInterval.Duration <= 0 {
		return fmt.Errorf("server.cleanup_interval: must be positive")
	}
	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvTheme         = "JSONTREE_THEME"
	EnvSearchMode    = "JSONTREE_SEARCH_MODE"
	EnvCacheBackend  = "JSONTREE_CACHE_BACKEND"
	EnvCacheDir      = "JSONTREE_CACHE_DIR"
	EnvCacheTTL      = "JSONTREE_CACHE_TTL"
	EnvRedisAddr     = "JSONTREE_REDIS_ADDR"
	EnvRedisPassword = "JSONTREE_REDIS_PASSWORD"
	EnvRedisDB       = "JSONTREE_REDIS_DB"
	EnvMongoURI      = "JSONTREE_MONGO_URI"
	EnvMongoDatabase = "JSONTREE_MONGO_DATABASE"
	EnvAddr          = "JSONTREE_ADDR"
	EnvSessionTTL    = "JSONTREE_SESSION_TTL"
)

// ApplyEnv overrides fields from JSONTREE_* variables. lookup defaults to
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	strs := map[string]*string{
		EnvTheme:         &c.View.Theme,
		EnvSearchMode:    &c.View.SearchMode,
		EnvCacheBackend:  &c.Cache.Backend,
		EnvCacheDir:      &c.Cache.Dir,
		EnvRedisAddr:     &c.Cache.RedisAddr,
		EnvRedisPassword: &c.Cache.RedisPassword,
		EnvMongoURI:      &c.Cache.MongoURI,
		EnvMongoDatabase: &c.Cache.MongoDatabase,
		EnvAddr:          &c.Server.Addr,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*Duration{
		EnvCacheTTL:   &c.Cache.TTL,
		EnvSessionTTL: &c.Server.SessionTTL,
	}
	for name, dst := range durations {
		if v, ok := lookup(name); ok && v != "" {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}

	if v, ok := lookup(EnvRedisDB); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", EnvRedisDB, v)
		}
		c.Cache.RedisDB = n
	}
	return nil
}

// CacheOptions converts the cache section for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		},
		Mongo: cache.MongoConfig{
			URI:      c.Cache.MongoURI,
			Database: c.Cache.MongoDatabase,
		},
	}
}

// Theme returns the parsed view theme, falling back to the default.
func (c *Config) Theme() render.Theme {
	t, err := render.ParseTheme(c.View.Theme)
	if err != nil {
		return render.DefaultTheme
	}
	return t
}
