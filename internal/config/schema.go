package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version" validate:"eq=1"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Watch    WatchConfig    `yaml:"watch"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig selects where the settings blob lives
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite file"`
	Path   string `yaml:"path" validate:"required"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
}

// WatchConfig enables reloading settings from a YAML or JSON file
type WatchConfig struct {
	File     string   `yaml:"file,omitempty"`
	Debounce Duration `yaml:"debounce,omitempty" validate:"gte=0"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
