// Package config loads the ctl YAML configuration and maps it onto render options.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jpfielding/dicomlut.go/pkg/lut"
	"github.com/jpfielding/dicomlut.go/pkg/render"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	Log struct {
		// Level is one of DEBUG, INFO, WARN, ERROR
		Level string `yaml:"level"`
		// File enables a rotated log file next to stdout when set
		File       string `yaml:"file"`
		JSON       bool   `yaml:"json"`
		MaxSizeMB  int    `yaml:"maxSizeMB"`
		MaxBackups int    `yaml:"maxBackups"`
	} `yaml:"log"`

	Render struct {
		PixelPadding bool   `yaml:"pixelPadding"`
		FillOutside  bool   `yaml:"fillOutside"`
		Inverse      bool   `yaml:"inverse"`
		Shape        string `yaml:"shape"`
		// Preset selects a named preset when no window is given
		Preset string `yaml:"preset"`
	} `yaml:"render"`

	Preload struct {
		// Workers bounds the frames decoded concurrently by a series preload
		Workers int `yaml:"workers"`
	} `yaml:"preload"`

	Presets []Preset `yaml:"presets"`
}

// Preset is a user defined window
type Preset struct {
	Name   string  `yaml:"name"`
	Window float64 `yaml:"window"`
	Level  float64 `yaml:"level"`
	Shape  string  `yaml:"shape,omitempty"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Log.Level = "INFO"
	cfg.Log.MaxSizeMB = 50
	cfg.Log.MaxBackups = 3

	cfg.Render.PixelPadding = true
	cfg.Render.Shape = lut.Linear.String()

	cfg.Preload.Workers = runtime.NumCPU()
	return cfg
}

// Load reads the YAML file at path over the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory when needed
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// Validate rejects presets that cannot be rendered
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Presets))
	for _, p := range c.Presets {
		if p.Name == "" {
			return fmt.Errorf("preset without a name")
		}
		if p.Window <= 0 {
			return fmt.Errorf("preset %q: window must be positive, got %v", p.Name, p.Window)
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return fmt.Errorf("duplicate preset %q", p.Name)
		}
		seen[key] = true
	}
	return nil
}

// LogLevel parses Log.Level, falling back to INFO
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// RenderOptions maps the render section onto render options
func (c *Config) RenderOptions() []render.Option {
	opts := []render.Option{
		render.WithPixelPadding(c.Render.PixelPadding),
		render.WithFillOutside(c.Render.FillOutside),
		render.WithInverse(c.Render.Inverse),
	}
	if f, ok := lut.ParseFunction(c.Render.Shape); ok && f != lut.Sequence {
		opts = append(opts, render.WithShape(lut.NewShape(f)))
	}
	return opts
}

// CustomPresets converts the configured presets
func (c *Config) CustomPresets() []render.Preset {
	out := make([]render.Preset, 0, len(c.Presets))
	for _, p := range c.Presets {
		f, _ := lut.ParseFunction(p.Shape)
		out = append(out, render.Preset{
			Name:   p.Name,
			Window: p.Window,
			Level:  p.Level,
			Shape:  lut.NewShape(f),
			Source: render.Custom,
		})
	}
	return out
}
