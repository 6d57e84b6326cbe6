// Package config loads labyrinth settings from a TOML file.
//
// Every setting has a default, so a missing file is not an error. A file
// overrides only the keys it names:
//
//	[engine]
//	pattern_size = 5
//	catalog = "patterns.yaml"
//	step_budget = 1000
//	tick = "16ms"
//	integrity_check = false
//
//	[log]
//	level = "info"
//
//	[cache]
//	backend = "redis"   # file, null, redis or mongo
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
//
//	[[trails]]
//	seed = 19283801
//	length = 15
//
// Command-line flags override file values; that merging happens in the CLI.
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/labyrinth/pkg/cache"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/trail"
)

const appName = "labyrinth"

// Config is the complete application configuration.
type Config struct {
	Engine Engine  `toml:"engine"`
	Log    Log     `toml:"log"`
	Cache  Cache   `toml:"cache"`
	Server Server  `toml:"server"`
	Trails []Trail `toml:"trails"`
}

// Engine configures the maze engine.
type Engine struct {
	// PatternSize is the side length N of every pattern. It must match the
	// catalog.
	PatternSize int `toml:"pattern_size"`

	// Catalog is a JSON or YAML pattern file. Empty selects the embedded
	// catalog.
	Catalog string `toml:"catalog"`

	// StepBudget caps the generation requests processed per tick.
	StepBudget int `toml:"step_budget"`

	// Tick is the cadence at which long-running commands drive generation.
	Tick Duration `toml:"tick"`

	// IntegrityCheck verifies every generated tile and logs mismatches.
	IntegrityCheck bool `toml:"integrity_check"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Cache configures the artifact cache.
type Cache struct {
	Backend         string   `toml:"backend"`
	Dir             string   `toml:"dir"`
	RedisAddr       string   `toml:"redis_addr"`
	RedisPassword   string   `toml:"redis_password"`
	RedisDB         int      `toml:"redis_db"`
	RedisPrefix     string   `toml:"redis_prefix"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
	TTL             Duration `toml:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string   `toml:"addr"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Trail configures one trail of the explorer and the trail endpoints.
type Trail struct {
	Seed   uint32 `toml:"seed"`
	Length int    `toml:"length"`
}

// Duration is a time.Duration written as a string such as "16ms".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{
		Engine: Engine{
			PatternSize: 5,
			StepBudget:  1000,
			Tick:        Duration{16 * time.Millisecond},
		},
		Log: Log{Level: "info"},
		Cache: Cache{
			Backend:       cache.BackendFile,
			RedisAddr:     "localhost:6379",
			RedisPrefix:   appName + ":",
			MongoDatabase: appName,
			TTL:           Duration{cache.TTLTile},
		},
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: Duration{10 * time.Second},
		},
	}
	for _, seed := range trail.DefaultSeeds {
		c.Trails = append(c.Trails, Trail{Seed: seed, Length: trail.DefaultLength})
	}
	return c
}

// Load reads path on top of the defaults and validates the result. Unknown
// keys are rejected so that typos do not pass silently.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config %s", path)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return c, nil
}

// LoadDefault loads the file at [DefaultPath], falling back to [Default]
// when there is none.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	c, err := Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return c, err
}

// Decode reads TOML from r on top of the defaults and validates the result.
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	trails := c.Trails
	c.Trails = nil

	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if !md.IsDefined("trails") {
		c.Trails = trails
	}
	for i := range c.Trails {
		if c.Trails[i].Length == 0 {
			c.Trails[i].Length = trail.DefaultLength
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if err := errors.ValidatePatternSize(c.Engine.PatternSize); err != nil {
		return err
	}
	if c.Engine.Catalog != "" {
		if err := errors.ValidateCatalogPath(c.Engine.Catalog); err != nil {
			return err
		}
	}
	if err := errors.ValidateStepBudget(c.Engine.StepBudget); err != nil {
		return err
	}
	if c.Engine.Tick.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "engine tick must be positive, got %s", c.Engine.Tick)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log level")
	}

	backends := []string{cache.BackendFile, cache.BackendNull, cache.BackendRedis, cache.BackendMongo}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend must be one of %s, got %q",
			strings.Join(backends, ", "), c.Cache.Backend)
	}
	switch c.Cache.Backend {
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis cache needs redis_addr")
		}
	case cache.BackendMongo:
		if err := errors.ValidateMongoURI(c.Cache.MongoURI); err != nil {
			return err
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}

	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server addr cannot be empty")
	}
	for i, t := range c.Trails {
		if t.Length < 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "trail %d: length must be positive, got %d", i, t.Length)
		}
	}
	return nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() log.Level {
	l, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// CacheOptions converts the cache section for [cache.Open]. An empty
// directory is replaced by [CacheDir].
func (c *Config) CacheOptions() cache.Options {
	dir := c.Cache.Dir
	if dir == "" {
		dir, _ = CacheDir()
	}
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     dir,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   c.Cache.RedisPrefix,
		},
		Mongo: cache.MongoConfig{
			URI:        c.Cache.MongoURI,
			Database:   c.Cache.MongoDatabase,
			Collection: c.Cache.MongoCollection,
		},
	}
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/labyrinth/config.toml).
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the cache directory using the XDG standard
// (~/.cache/labyrinth/).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
