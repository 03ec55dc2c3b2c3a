// Package config loads teamtree's TOML configuration.
//
// Values are resolved in order of precedence: command-line flags (applied by
// the CLI), TEAMTREE_* environment variables, the config file, then
// [Default]. A missing config file is not an error.
//
// Example config.toml:
//
//	log_level = "debug"
//
//	[api]
//	base_url = "https://predict.example.com/v1"
//	timeout = "15s"
//
//	[cache]
//	backend = "sqlite"
//
//	[layout]
//	max_label_length = 16
//
//	[[viewport.breakpoints]]
//	name = "phone"
//	min_screen_width = 0
//	height = 420
//	margin_bottom = 110
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/teamtree/pkg/cache"
	"github.com/matzehuels/teamtree/pkg/dendrogram"
	tterrors "github.com/matzehuels/teamtree/pkg/errors"
	"github.com/matzehuels/teamtree/pkg/viewport"
)

// Config is the full configuration.
type Config struct {
	LogLevel string          `toml:"log_level"`
	API      APIConfig       `toml:"api"`
	Cache    cache.Config    `toml:"cache"`
	Layout   LayoutConfig    `toml:"layout"`
	Viewport viewport.Policy `toml:"viewport"`
	Server   ServerConfig    `toml:"server"`
}

// APIConfig configures the prediction backend client.
type APIConfig struct {
	BaseURL string   `toml:"base_url"`
	Token   string   `toml:"token"`
	Timeout Duration `toml:"timeout"`
}

// LayoutConfig holds label settings passed to the layout.
type LayoutConfig struct {
	MaxLabelLength int     `toml:"max_label_length"`
	LabelOffset    float64 `toml:"label_offset"`
	Ellipsis       string  `toml:"ellipsis"`
}

// ServerConfig configures `teamtree serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "10s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration. Cache paths are left empty
// and filled in by [Config.Resolve].
func Default() Config {
	return Config{
		LogLevel: "info",
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: Duration{10 * time.Second},
		},
		Cache: cache.Config{
			Backend:       cache.BackendFile,
			MongoDatabase: AppName,
		},
		Layout: LayoutConfig{
			MaxLabelLength: dendrogram.DefaultMaxLabelLength,
			LabelOffset:    dendrogram.DefaultLabelOffset,
			Ellipsis:       dendrogram.DefaultEllipsis,
		},
		Viewport: viewport.DefaultPolicy(),
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// Load reads the file at path over [Default], applies environment
// overrides and validates the result. Unknown keys are rejected so that
// typos do not pass silently.
func Load(path string) (Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		// Breakpoints from the file replace the defaults instead of being
		// merged into them element by element.
		cfg.Viewport.Breakpoints = nil
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, os.ErrNotExist):
			cfg = Default()
		case err != nil:
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				return Config{}, tterrors.New(tterrors.ErrCodeInvalidInput,
					"%s: unknown keys: %s", path, strings.Join(keys, ", "))
			}
		}
	}

	if len(cfg.Viewport.Breakpoints) == 0 {
		cfg.Viewport = viewport.DefaultPolicy()
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Resolve(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envVars maps each TEAMTREE_* variable onto its config field.
func (c *Config) envVars() map[string]*string {
	return map[string]*string{
		"TEAMTREE_LOG_LEVEL":      &c.LogLevel,
		"TEAMTREE_API_URL":        &c.API.BaseURL,
		"TEAMTREE_API_TOKEN":      &c.API.Token,
		"TEAMTREE_CACHE_BACKEND":  &c.Cache.Backend,
		"TEAMTREE_CACHE_DIR":      &c.Cache.Dir,
		"TEAMTREE_SQLITE_PATH":    &c.Cache.SQLitePath,
		"TEAMTREE_REDIS_ADDR":     &c.Cache.RedisAddr,
		"TEAMTREE_MONGO_URI":      &c.Cache.MongoURI,
		"TEAMTREE_MONGO_DATABASE": &c.Cache.MongoDatabase,
		"TEAMTREE_SERVER_ADDR":    &c.Server.Addr,
	}
}

func (c *Config) applyEnv(getenv func(string) string) error {
	for key, dst := range c.envVars() {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	if v := strings.TrimSpace(getenv("TEAMTREE_API_TIMEOUT")); v != "" {
		if err := c.API.Timeout.UnmarshalText([]byte(v)); err != nil {
			return tterrors.Wrap(tterrors.ErrCodeInvalidInput, err, "TEAMTREE_API_TIMEOUT")
		}
	}
	return nil
}

// Resolve fills in derived paths: the cache directory and the SQLite file
// inside it.
func (c *Config) Resolve() error {
	if c.Cache.Dir == "" {
		dir, err := CacheDir()
		if err != nil {
			return fmt.Errorf("cache dir: %w", err)
		}
		c.Cache.Dir = dir
	}
	c.Cache.Dir = expandUserPath(c.Cache.Dir)
	if c.Cache.SQLitePath == "" {
		c.Cache.SQLitePath = filepath.Join(c.Cache.Dir, "cache.db")
	}
	c.Cache.SQLitePath = expandUserPath(c.Cache.SQLitePath)
	return nil
}

// Validate checks every field that has a fixed set of values.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return tterrors.New(tterrors.ErrCodeInvalidInput, "invalid log_level %q", c.LogLevel)
	}
	if c.API.BaseURL != "" {
		if err := tterrors.ValidateURL(c.API.BaseURL); err != nil {
			return err
		}
	}
	if c.API.Timeout.Duration < 0 {
		return tterrors.New(tterrors.ErrCodeInvalidInput, "api.timeout must not be negative")
	}
	backend := strings.ToLower(c.Cache.Backend)
	if backend != "" && !slices.Contains(cache.Backends(), backend) {
		return tterrors.New(tterrors.ErrCodeInvalidInput,
			"invalid cache.backend %q (must be one of: %s)", c.Cache.Backend, strings.Join(cache.Backends(), ", "))
	}
	if err := c.Viewport.Validate(); err != nil {
		return tterrors.Wrap(tterrors.ErrCodeInvalidInput, err, "invalid viewport policy")
	}
	return nil
}

// Level returns the configured log level, or info if it does not parse.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Redacted returns a copy that is safe to print.
func (c Config) Redacted() Config {
	if c.API.Token != "" {
		c.API.Token = "********"
	}
	if c.Cache.MongoURI != "" {
		c.Cache.MongoURI = redactURI(c.Cache.MongoURI)
	}
	return c
}

// Write encodes c as TOML.
func Write(w io.Writer, c Config) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Save writes c to path, creating parent directories.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, c)
}

func redactURI(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return uri
	}
	user, _, _ := strings.Cut(userinfo, ":")
	return scheme + "://" + user + ":********@" + host
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
