// Package config loads the optional n1burner.toml settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"github.com/n1geiger/n1burner/internal/assets"
	"github.com/n1geiger/n1burner/internal/esptool"
)

// DefaultFileName is looked up next to the executable when no file is given.
const DefaultFileName = "n1burner.toml"

// Config holds tool locations and defaults. Every field is optional.
type Config struct {
	Esptool  string `toml:"esptool"`
	Espefuse string `toml:"espefuse"`
	Python   string `toml:"python"`
	AssetDir string `toml:"asset_dir"`
	Port     string `toml:"port"`
}

// Load reads path. With an empty path it tries DefaultFileName next to the
// executable and returns an empty Config if that does not exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		base, err := assets.BaseDir()
		if err != nil {
			return &Config{}, nil
		}
		path = filepath.Join(base, DefaultFileName)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
	}

	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := tree.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Relative asset directories are relative to the config file.
	if cfg.AssetDir != "" && !filepath.IsAbs(cfg.AssetDir) {
		cfg.AssetDir = filepath.Join(filepath.Dir(path), cfg.AssetDir)
	}

	return cfg, nil
}

// ToolPaths returns the tool overrides for the esptool package.
func (c *Config) ToolPaths() esptool.Paths {
	return esptool.Paths{
		Esptool:  c.Esptool,
		Espefuse: c.Espefuse,
		Python:   c.Python,
	}
}
