// Package config loads the JSON settings file and applies CLI overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"unity-asset-reader/internal/unityver"
)

// Config holds input paths and load/render settings.
type Config struct {
	// Paths
	Inputs    []string `json:"inputs"`
	OutputDir string   `json:"output_dir"`
	Catalog   string   `json:"catalog"`

	// Load settings
	VersionHint string `json:"version_hint"`
	Workers     int    `json:"workers"`

	// Thumbnail settings
	ThumbSize   int `json:"thumb_size"`
	Supersample int `json:"supersample"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Inputs      []string
	OutputDir   string
	VersionHint string
	Workers     int
	ThumbSize   int
}

// Resolve applies flags, then fills empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if len(flags.Inputs) > 0 {
		c.Inputs = flags.Inputs
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.VersionHint != "" {
		c.VersionHint = flags.VersionHint
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.ThumbSize > 0 {
		c.ThumbSize = flags.ThumbSize
	}

	if c.OutputDir == "" {
		c.OutputDir = "thumbs"
	}
	if c.Catalog == "" {
		c.Catalog = filepath.Join(c.OutputDir, "catalog.db")
	}
	if c.ThumbSize <= 0 {
		c.ThumbSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Version parses VersionHint. An empty hint is the zero version.
func (c *Config) Version() (unityver.Version, error) {
	if c.VersionHint == "" {
		return unityver.Version{}, nil
	}
	v, err := unityver.Parse(c.VersionHint)
	if err != nil {
		return unityver.Version{}, fmt.Errorf("config: version hint %q: %w", c.VersionHint, err)
	}
	return v, nil
}
