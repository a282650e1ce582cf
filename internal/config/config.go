// Package config loads the optional shelfsync.toml settings file.
// Every value has a default; command-line flags override file values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is where Load looks when no --config flag is given.
const DefaultPath = "shelfsync.toml"

// Config carries the tunable settings.
type Config struct {
	// GoodreadsConfig is the cookie artifact path.
	GoodreadsConfig string `toml:"goodreads_config"`
	// LibbyConfig is the login artifact path.
	LibbyConfig string `toml:"libby_config"`

	Export ExportConfig `toml:"export"`
	Browse BrowseConfig `toml:"browse"`
}

// ExportConfig tunes the Goodreads export polling loop.
type ExportConfig struct {
	Output          string `toml:"output"`
	PollIntervalSec int    `toml:"poll_interval_seconds"`
	MaxPollAttempts int    `toml:"max_poll_attempts"`
}

// BrowseConfig tunes the Libby shelf search.
type BrowseConfig struct {
	Concurrency int    `toml:"concurrency"`
	CacheFile   string `toml:"cache_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		GoodreadsConfig: "goodreads_config.json",
		LibbyConfig:     "libby_config.json",
		Export: ExportConfig{
			Output:          "goodreads_export.csv",
			PollIntervalSec: 5,
			MaxPollAttempts: 60,
		},
		Browse: BrowseConfig{
			Concurrency: 16,
			CacheFile:   "format_cache.json",
		},
	}
}

// Load reads path on top of the defaults. A missing file at the default
// path is fine; a missing file named explicitly is an error, which is
// why callers pass explicit=true for flag-provided paths.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Export.PollIntervalSec <= 0 {
		return errors.New("export.poll_interval_seconds must be positive")
	}
	if c.Export.MaxPollAttempts <= 0 {
		return errors.New("export.max_poll_attempts must be positive")
	}
	if c.Browse.Concurrency <= 0 {
		return errors.New("browse.concurrency must be positive")
	}
	return nil
}
