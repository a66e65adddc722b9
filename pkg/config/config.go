// Package config loads the datalabels configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/datalabels/config.toml
// (or ~/.config/datalabels/config.toml). $DATALABELS_CONFIG overrides the
// location. Every key is optional; unset keys keep the pipeline defaults.
//
//	[labels]
//	max_labels = 8
//	measurer = "font"
//
//	[render]
//	formats = ["svg", "json"]
//	background = "#ffffff"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	prefix = "prod:"
//
//	[server]
//	addr = ":8080"
//	request_timeout = "30s"
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	dlerrors "github.com/matzehuels/datalabels/pkg/errors"
	"github.com/matzehuels/datalabels/pkg/pipeline"
)

const (
	appName = "datalabels"

	// EnvPath overrides the config file location.
	EnvPath = "DATALABELS_CONFIG"
)

// Server defaults.
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxBodyBytes   = 8 << 20
)

// Config is the whole configuration file.
type Config struct {
	Labels Labels `toml:"labels"`
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Labels holds layout defaults.
type Labels struct {
	MaxLabels int      `toml:"max_labels,omitempty"`
	Offset    *float64 `toml:"offset,omitempty"`
	FontSize  float64  `toml:"font_size,omitempty"`
	Width     float64  `toml:"width,omitempty"`
	Height    float64  `toml:"height,omitempty"`
	Measurer  string   `toml:"measurer,omitempty"`
	NoGrid    bool     `toml:"no_grid,omitempty"`
}

// Render holds output defaults.
type Render struct {
	Formats      []string `toml:"formats,omitempty"`
	Background   string   `toml:"background,omitempty"`
	MarkerRadius float64  `toml:"marker_radius,omitempty"`
	Boxes        bool     `toml:"boxes,omitempty"`
	Scale        float64  `toml:"scale,omitempty"`
}

// Cache selects the cache backend. RedisURL wins over Dir.
type Cache struct {
	Disabled bool     `toml:"disabled,omitempty"`
	Dir      string   `toml:"dir,omitempty"`
	RedisURL string   `toml:"redis_url,omitempty"`
	Prefix   string   `toml:"prefix,omitempty"`
	TTL      Duration `toml:"ttl,omitempty"`
}

// Server configures `datalabels serve`.
type Server struct {
	Addr           string   `toml:"addr,omitempty"`
	RequestTimeout Duration `toml:"request_timeout,omitempty"`
	MaxBodyBytes   int64    `toml:"max_body_bytes,omitempty"`
}

// Duration is a time.Duration written as a string such as "30s".
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
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: Server{
			Addr:           DefaultAddr,
			RequestTimeout: Duration{DefaultRequestTimeout},
			MaxBodyBytes:   DefaultMaxBodyBytes,
		},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path on top of the defaults. An empty path means
// the default location, where a missing file is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return Config{}, dlerrors.Wrap(dlerrors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Default(), nil
	}
	if err != nil {
		return Config{}, dlerrors.Wrap(dlerrors.ErrCodeInvalidConfig, err, "parse %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, dlerrors.New(dlerrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values a pipeline run cannot catch itself.
func (c Config) Validate() error {
	opts := c.PipelineOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return dlerrors.New(dlerrors.ErrCodeInvalidConfig, "%s", dlerrors.UserMessage(err))
	}
	if c.Cache.RedisURL != "" {
		if err := dlerrors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return dlerrors.New(dlerrors.ErrCodeInvalidConfig, "cache.redis_url: %s", dlerrors.UserMessage(err))
		}
	}
	if c.Cache.TTL.Duration < 0 || c.Server.RequestTimeout.Duration < 0 || c.Server.MaxBodyBytes < 0 {
		return dlerrors.New(dlerrors.ErrCodeInvalidConfig, "durations and sizes must not be negative")
	}
	return nil
}

// PipelineOptions returns the pipeline options the file describes. Unset
// values stay zero so the pipeline fills its own defaults.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		MaxLabels:    c.Labels.MaxLabels,
		Offset:       c.Labels.Offset,
		FontSize:     c.Labels.FontSize,
		Width:        c.Labels.Width,
		Height:       c.Labels.Height,
		Measurer:     c.Labels.Measurer,
		NoGrid:       c.Labels.NoGrid,
		Formats:      c.Render.Formats,
		Background:   c.Render.Background,
		MarkerRadius: c.Render.MarkerRadius,
		Boxes:        c.Render.Boxes,
		Scale:        c.Render.Scale,
	}
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Write saves c at path, creating parent directories.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
