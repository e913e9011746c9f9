// Package config provides configuration management for netdiagram.
//
// Config files are YAML or TOML, chosen by extension. Values missing from
// the file keep their defaults.
//
// Config file locations (priority order):
//  1. $NETDIAGRAM_CONFIG
//  2. ./netdiagram.yaml, ./netdiagram.toml
//  3. $XDG_CONFIG_HOME/netdiagram/config.yaml
//  4. ~/.config/netdiagram/config.yaml
//  5. /etc/netdiagram/config.yaml
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"netdiagram/internal/codec"
	"netdiagram/internal/layout"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	} else {
		data, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		buf.Write(data)
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Server:   ServerConfig{Addr: ":3000"},
		Database: DatabaseConfig{Path: "./netdiagram.db"},
		Physics:  layout.DefaultParams(),
		Viewport: ViewportConfig{Width: 800, Height: 600},
		Frames:   FramesConfig{FPS: 60, BroadcastEvery: 6},
		Import:   ImportConfig{Spacing: codec.DefaultSpacing},
		Discovery: DiscoveryConfig{
			Timeout: Duration(2 * time.Minute),
		},
		Autosave: AutosaveConfig{Enabled: true, Name: "autosave"},
	}
}

// applyDefaults fills in values a file may have zeroed
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Database.Path == "" {
		c.Database.Path = d.Database.Path
	}
	if c.Physics.MinDistance <= 0 {
		c.Physics.MinDistance = d.Physics.MinDistance
	}
	if c.Frames.FPS <= 0 {
		c.Frames.FPS = d.Frames.FPS
	}
	if c.Import.Spacing <= 0 {
		c.Import.Spacing = d.Import.Spacing
	}
	if c.Discovery.Timeout <= 0 {
		c.Discovery.Timeout = d.Discovery.Timeout
	}
	if c.Autosave.Name == "" {
		c.Autosave.Name = d.Autosave.Name
	}
}

// Validate rejects values the editor cannot run with
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("invalid config: viewport %gx%g must be positive", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Physics.Repulsion < 0 || c.Physics.Spring < 0 || c.Physics.Damping < 0 {
		return fmt.Errorf("invalid config: physics constants must not be negative")
	}
	if c.Frames.BroadcastEvery < 0 {
		return fmt.Errorf("invalid config: frames.broadcast_every must not be negative")
	}
	return nil
}

// LayoutViewport returns the configured viewport
func (c *Config) LayoutViewport() layout.Viewport {
	return layout.Viewport{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

// Summary returns a one-line config summary
func (c *Config) Summary() string {
	return fmt.Sprintf("addr=%s db=%s fps=%d viewport=%gx%g autosave=%v",
		c.Server.Addr, c.Database.Path, c.Frames.FPS, c.Viewport.Width, c.Viewport.Height, c.Autosave.Enabled)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
