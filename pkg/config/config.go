// Package config loads operator defaults for fetchlist from an optional
// TOML file. A missing file yields the zero configuration, flags on the
// command line take precedence either way.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"fetchlist/pkg/env"
)

// Duration wraps time.Duration so values like "30s" or "10m" decode
// from TOML.
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

type Config struct {
	OutputDir  string   `toml:"output_dir"`
	Engine     string   `toml:"engine"`
	Timeout    Duration `toml:"timeout"`
	Create     bool     `toml:"create"`
	Overwrite  bool     `toml:"overwrite"`
	Extensions []string `toml:"extensions"`
	Pattern    string   `toml:"pattern"`
	NoProgress bool     `toml:"no_progress"`
	UserAgent  string   `toml:"user_agent"`
}

// DefaultPath returns the well-known config file location
// (~/.config/fetchlist/config.toml).
func DefaultPath() (string, error) {
	dir, err := env.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path, or the default location when path
// is empty. A file that does not exist is not an error.
func Load(path string) (*Config, error) {
	out := &Config{}
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return out, nil
	}
	if _, err := toml.DecodeFile(path, out); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return out, nil
}
