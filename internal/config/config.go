// Package config loads the cfglevel configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/cfglevel/config.toml
// unless a path is given explicitly:
//
//	[log]
//	level = "info"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "15s"
//
// Every key is optional; missing keys keep their defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cfglevel/pkg/cache"
	apperrors "github.com/matzehuels/cfglevel/pkg/errors"
)

const appName = "cfglevel"

// Config is the decoded configuration file.
type Config struct {
	Log    Log    `toml:"log"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

type Log struct {
	Level string `toml:"level"`
}

type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	// Prefix namespaces every key, for several deployments on one backend.
	Prefix string `toml:"prefix"`
}

type Server struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64    `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a Go duration string ("15s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:   Log{Level: "info"},
		Cache: Cache{Backend: cache.BackendFile},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{60 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
			MaxBodyBytes:    8 << 20,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/cfglevel/config.toml or its
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load reads path over the defaults. An empty path means [DefaultPath],
// which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, apperrors.New(apperrors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, apperrors.New(apperrors.ErrCodeInvalidInput,
			"%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Cache.Backend) {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendRedis:
	case cache.BackendMongo:
		if c.Cache.MongoURI == "" {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "cache.mongo_uri is required for the mongo backend")
		}
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown cache.backend %q", c.Cache.Backend)
	}
	if c.Server.MaxBodyBytes < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "server.max_body_bytes must not be negative")
	}
	return nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (log.Level, error) {
	if c.Log.Level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "log.level")
	}
	return lvl, nil
}

// CacheOptions converts the cache section for [cache.Open].
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:  c.Cache.Backend,
		Dir:      c.Cache.Dir,
		RedisURL: c.Cache.RedisURL,
		MongoURI: c.Cache.MongoURI,
		MongoDB:  c.Cache.MongoDatabase,
	}
}

// Keyer returns the cache keyer for the configured prefix, or nil for the
// default keys.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

// Write encodes c as TOML to path, creating parent directories.
func Write(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}
