package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/san-kum/particlefield/internal/field"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAgent      = "omics"
	DefaultBackground = "#0a0a0a"
	DefaultFPS        = 60
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultFrames     = 180
	DefaultTheme      = "research"
)

type Config struct {
	Agent      string   `yaml:"agent,omitempty" toml:"agent,omitempty"`
	Mode       string   `yaml:"mode" toml:"mode"`
	Palette    []string `yaml:"palette" toml:"palette"`
	Background string   `yaml:"background" toml:"background"`
	Theme      string   `yaml:"theme" toml:"theme"`
	FPS        int      `yaml:"fps" toml:"fps"`
	Seed       int64    `yaml:"seed,omitempty" toml:"seed,omitempty"`
	Width      int      `yaml:"width" toml:"width"`
	Height     int      `yaml:"height" toml:"height"`
	Frames     int      `yaml:"frames" toml:"frames"`
}

func DefaultConfig() *Config {
	agent := Agents[DefaultAgent]
	return &Config{
		Agent:      DefaultAgent,
		Mode:       string(agent.Mode),
		Palette:    []string{agent.Primary, agent.Secondary},
		Background: DefaultBackground,
		Theme:      DefaultTheme,
		FPS:        DefaultFPS,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Frames:     DefaultFrames,
	}
}

// Load reads a config file on top of the defaults. Files ending in .toml
// are TOML, everything else is YAML. An agent named in the file supplies
// mode and palette unless the file sets them too.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := cfg.merge(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) merge(raw *Config) error {
	if raw.Agent != "" {
		if err := c.ApplyAgent(raw.Agent); err != nil {
			return err
		}
	}
	if raw.Mode != "" {
		c.Mode = raw.Mode
	}
	if raw.Palette != nil {
		c.Palette = raw.Palette
	}
	if raw.Background != "" {
		c.Background = raw.Background
	}
	if raw.Theme != "" {
		c.Theme = raw.Theme
	}
	if raw.FPS != 0 {
		c.FPS = raw.FPS
	}
	if raw.Seed != 0 {
		c.Seed = raw.Seed
	}
	if raw.Width != 0 {
		c.Width = raw.Width
	}
	if raw.Height != 0 {
		c.Height = raw.Height
	}
	if raw.Frames != 0 {
		c.Frames = raw.Frames
	}
	return nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Validate checks value ranges and colours. Unknown modes are allowed;
// they animate with the fallback style.
func (c *Config) Validate() error {
	if c.FPS < 0 {
		return fmt.Errorf("fps must not be negative, got %d", c.FPS)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("size must not be negative, got %dx%d", c.Width, c.Height)
	}
	if c.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", c.Frames)
	}
	if c.Agent != "" && GetPreset(c.Agent) == nil {
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownAgent, c.Agent, ListPresets())
	}
	if _, err := c.FieldPalette(); err != nil {
		return err
	}
	if _, err := field.ParseColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	return nil
}

// ApplyAgent copies an agent preset's mode and palette into c.
func (c *Config) ApplyAgent(name string) error {
	a := GetPreset(name)
	if a == nil {
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownAgent, name, ListPresets())
	}
	c.Agent = a.Name
	c.Mode = string(a.Mode)
	c.Palette = []string{a.Primary, a.Secondary}
	return nil
}

func (c *Config) FieldMode() field.Mode {
	return field.ParseMode(c.Mode)
}

// FieldPalette parses the palette. An empty list is not an error: the
// field still animates, it just draws nothing.
func (c *Config) FieldPalette() (field.Palette, error) {
	if len(c.Palette) == 0 {
		return nil, nil
	}
	return field.ParsePalette(c.Palette...)
}

// Options turns the config into animator options.
func (c *Config) Options() ([]field.Option, error) {
	pal, err := c.FieldPalette()
	if err != nil {
		return nil, err
	}
	opts := []field.Option{field.WithMode(c.FieldMode()), field.WithPalette(pal)}
	if c.Seed != 0 {
		opts = append(opts, field.WithSeed(c.Seed))
	}
	return opts, nil
}
