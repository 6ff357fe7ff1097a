// Package config loads the kruskalviz TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/kruskalviz/config.toml (falling back to
// ~/.config/kruskalviz/config.toml). A missing file yields [Default]; every
// key is optional and overrides the corresponding default:
//
//	step_delay = "1500ms"
//
//	[generate]
//	nodes = 7
//	extra_edges = 8
//	layout = "auto"
//	max_weight = 50
//	seed = 0
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	backend = "file"    # file, redis, mongo or none
//	dir = ""
//	redis_addr = ""
//	redis_prefix = "kruskalviz:"
//	mongo_uri = ""
//	mongo_database = "kruskalviz"
//	mongo_collection = "graphs"
//
//	[cache]
//	disabled = false
//	dir = ""
//	ttl = "0s"
package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kruskalviz/pkg/engine"
	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/layout"
	"github.com/matzehuels/kruskalviz/pkg/store"
)

const appName = "kruskalviz"

// DefaultAddr is the HTTP listen address used by serve.
const DefaultAddr = ":8080"

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Duration returns d as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the full configuration file.
type Config struct {
	StepDelay Duration       `toml:"step_delay"`
	Generate  GenerateConfig `toml:"generate"`
	Server    ServerConfig   `toml:"server"`
	Store     StoreConfig    `toml:"store"`
	Cache     CacheConfig    `toml:"cache"`
}

// GenerateConfig holds random graph defaults.
type GenerateConfig struct {
	Nodes      int    `toml:"nodes"`
	ExtraEdges int    `toml:"extra_edges"`
	Layout     string `toml:"layout"`
	MaxWeight  int    `toml:"max_weight"`
	Seed       uint64 `toml:"seed"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig selects and configures the named graph store.
type StoreConfig struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	RedisAddr       string `toml:"redis_addr"`
	RedisPassword   string `toml:"redis_password"`
	RedisDB         int    `toml:"redis_db"`
	RedisPrefix     string `toml:"redis_prefix"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// CacheConfig configures the render artifact cache.
type CacheConfig struct {
	Disabled bool     `toml:"disabled"`
	Dir      string   `toml:"dir"`
	TTL      Duration `toml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	gen := layout.DefaultOptions()
	return Config{
		StepDelay: Duration(engine.DefaultStepDelay),
		Generate: GenerateConfig{
			Nodes:      gen.Nodes,
			ExtraEdges: gen.ExtraEdges,
			Layout:     string(gen.Layout),
			MaxWeight:  gen.MaxWeight,
		},
		Server: ServerConfig{Addr: DefaultAddr},
		Store: StoreConfig{
			Backend:         store.BackendFile,
			RedisPrefix:     store.DefaultRedisPrefix,
			MongoDatabase:   store.DefaultMongoDatabase,
			MongoCollection: store.DefaultMongoCollection,
		},
	}
}

// DefaultPath returns the config file location.
func DefaultPath() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path on top of the defaults. An empty path means DefaultPath.
// A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enum keys.
func (c Config) Validate() error {
	if c.StepDelay < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "step_delay must be non-negative")
	}
	if err := c.GenerateOptions().Validate(); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must be non-negative")
	}
	if !slices.Contains(store.Backends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (want file, redis, mongo or none)", c.Store.Backend)
	}
	return nil
}

// GenerateOptions converts the [generate] table to generator options.
func (c Config) GenerateOptions() layout.Options {
	return layout.Options{
		Nodes:      c.Generate.Nodes,
		ExtraEdges: c.Generate.ExtraEdges,
		Layout:     layout.Kind(c.Generate.Layout),
		MaxWeight:  c.Generate.MaxWeight,
		Seed:       c.Generate.Seed,
	}
}

// Delay returns the configured step delay.
func (c Config) Delay() time.Duration {
	return c.StepDelay.Duration()
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Open connects the configured store backend.
func (s StoreConfig) Open(ctx context.Context) (store.Store, error) {
	switch s.Backend {
	case store.BackendFile, "":
		return store.NewFileStore(s.Dir)
	case store.BackendRedis:
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     s.RedisAddr,
			Password: s.RedisPassword,
			DB:       s.RedisDB,
			Prefix:   s.RedisPrefix,
		})
	case store.BackendMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        s.MongoURI,
			Database:   s.MongoDatabase,
			Collection: s.MongoCollection,
		})
	case store.BackendNone:
		return store.NewNullStore(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", s.Backend)
	}
}
