// Package config loads stackmerge settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/stackmerge/config.toml, falling back to
// ~/.config/stackmerge/config.toml. A missing file is not an error; every
// field has a default. Command-line flags override whatever is loaded.
//
//	orientation = "horizontal"
//	quality     = 90
//	filter      = "catmullrom"
//	background  = "#1e1e2e"
//
//	[preview]
//	max_width  = 1024
//	max_height = 768
//
//	[cache]
//	enabled   = true
//	redis_url = "redis://localhost:6379/0"
//	ttl       = "72h"
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackmerge/pkg/cache"
	"github.com/matzehuels/stackmerge/pkg/core/layout"
	"github.com/matzehuels/stackmerge/pkg/core/preview"
	"github.com/matzehuels/stackmerge/pkg/core/resample"
	"github.com/matzehuels/stackmerge/pkg/core/sink"
	"github.com/matzehuels/stackmerge/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "stackmerge"

// Config holds every persistent setting.
type Config struct {
	Orientation string `toml:"orientation"`
	Format      string `toml:"format"` // empty: from the output extension
	Quality     int    `toml:"quality"`
	Lossless    bool   `toml:"lossless"`
	Filter      string `toml:"filter"`
	Workers     int    `toml:"workers"` // 0: one per CPU
	Background  string `toml:"background"`

	Preview preview.Bounds `toml:"preview"`
	Cache   Cache          `toml:"cache"`
}

// Cache configures artifact caching.
type Cache struct {
	Enabled  bool          `toml:"enabled"`
	Dir      string        `toml:"dir"`       // empty: XDG cache dir
	RedisURL string        `toml:"redis_url"` // set to use Redis instead of Dir
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Orientation: layout.Vertical.String(),
		Quality:     sink.DefaultQuality,
		Filter:      resample.DefaultFilter.Name,
		Preview:     preview.DefaultBounds,
		Cache: Cache{
			Enabled: true,
			Prefix:  AppName + ":",
			TTL:     cache.TTLArtifact,
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the default cache directory (~/.cache/stackmerge/).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the config file at path over the defaults.
//
// An empty path means the default location, where a missing file yields the
// defaults. An explicit path that does not exist is ErrCodeFileNotFound.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return Default(), nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := layout.ParseOrientation(c.Orientation); err != nil {
		return err
	}
	if c.Format != "" {
		if _, err := sink.ParseFormat(c.Format); err != nil {
			return err
		}
	}
	if _, err := resample.FilterByName(c.Filter); err != nil {
		return err
	}
	if c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", c.Workers)
	}
	if _, err := sink.ParseBackground(c.Background); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	return c.Preview.Validate()
}

// OrientationValue returns the parsed orientation, vertical if invalid.
func (c Config) OrientationValue() layout.Orientation {
	o, _ := layout.ParseOrientation(c.Orientation)
	return o
}

// Encode renders the config as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
