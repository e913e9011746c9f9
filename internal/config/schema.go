package config

import (
	"time"

	"netdiagram/internal/layout"
)

// Config is the root configuration structure
type Config struct {
	Version   int             `yaml:"version" toml:"version"`
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	Physics   layout.Params   `yaml:"physics" toml:"physics"`
	Viewport  ViewportConfig  `yaml:"viewport" toml:"viewport"`
	Frames    FramesConfig    `yaml:"frames" toml:"frames"`
	Import    ImportConfig    `yaml:"import" toml:"import"`
	Discovery DiscoveryConfig `yaml:"discovery" toml:"discovery"`
	Autosave  AutosaveConfig  `yaml:"autosave" toml:"autosave"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// DatabaseConfig configures the snapshot database
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// ViewportConfig is the initial viewport size
type ViewportConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// FramesConfig controls the frame loop
type FramesConfig struct {
	FPS            int `yaml:"fps" toml:"fps"`
	BroadcastEvery int `yaml:"broadcast_every" toml:"broadcast_every"` // 0 = no frame events
}

// ImportConfig controls placement of imported devices
type ImportConfig struct {
	Spacing float64 `yaml:"spacing" toml:"spacing"`
}

// DiscoveryConfig configures nmap discovery
type DiscoveryConfig struct {
	Targets           []string `yaml:"targets,omitempty" toml:"targets,omitempty"`
	Gateway           string   `yaml:"gateway,omitempty" toml:"gateway,omitempty"`
	Timeout           Duration `yaml:"timeout" toml:"timeout"`
	SkipHostDiscovery bool     `yaml:"skip_host_discovery" toml:"skip_host_discovery"`
}

// AutosaveConfig names the snapshot restored at start-up and saved at shutdown
type AutosaveConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Name    string `yaml:"name" toml:"name"`
}

// Duration wraps time.Duration for YAML and TOML marshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the TOML decoder
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
