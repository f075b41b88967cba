package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPreset      = "figure8"
	DefaultDt          = 0.0005
	DefaultSubsteps    = 10
	DefaultFrames      = 2000
	DefaultTrailLength = 2000
	DefaultRecordEvery = 1
	DefaultFPS         = 60
)

var defaultColors = [3]string{"#ff3333", "#33ccff", "#ffff33"}

type Config struct {
	Preset        string       `yaml:"preset,omitempty"`
	G             float64      `yaml:"g"`
	Dt            float64      `yaml:"dt"`
	Substeps      int          `yaml:"substeps"`
	Frames        int          `yaml:"frames"`
	MinSeparation float64      `yaml:"min_separation"`
	TrailLength   int          `yaml:"trail_length"`
	RecordEvery   int          `yaml:"record_every"`
	FPS           int          `yaml:"fps"`
	Bodies        []BodyConfig `yaml:"bodies,omitempty"`
}

// BodyConfig overrides the preset initial conditions when present. Either
// all three bodies are given or none.
type BodyConfig struct {
	Name     string     `yaml:"name,omitempty"`
	Position [3]float64 `yaml:"position,flow"`
	Velocity [3]float64 `yaml:"velocity,flow"`
	Mass     float64    `yaml:"mass"`
	Color    string     `yaml:"color,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:      DefaultPreset,
		G:           physics.DefaultG,
		Dt:          DefaultDt,
		Substeps:    DefaultSubsteps,
		Frames:      DefaultFrames,
		TrailLength: DefaultTrailLength,
		RecordEvery: DefaultRecordEvery,
		FPS:         DefaultFPS,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.G <= 0 {
		return fmt.Errorf("g must be positive, got %g: %w", c.G, dynamo.ErrParameterBounds)
	}
	if err := c.SimConfig().Validate(); err != nil {
		return err
	}
	if c.Frames < 1 {
		return fmt.Errorf("frames must be at least 1, got %d: %w", c.Frames, dynamo.ErrParameterBounds)
	}
	if c.TrailLength < 1 {
		return fmt.Errorf("trail_length must be at least 1, got %d: %w", c.TrailLength, dynamo.ErrParameterBounds)
	}
	if c.MinSeparation < 0 {
		return fmt.Errorf("min_separation must not be negative: %w", dynamo.ErrParameterBounds)
	}
	if c.RecordEvery < 1 || c.FPS < 1 {
		return fmt.Errorf("record_every and fps must be at least 1: %w", dynamo.ErrParameterBounds)
	}
	for i, bc := range c.Bodies {
		if bc.Color == "" {
			continue
		}
		if _, err := colorful.Hex(bc.Color); err != nil {
			return fmt.Errorf("body %d colour %q: %w", i+1, bc.Color, dynamo.ErrParameterBounds)
		}
	}
	_, err := c.System()
	return err
}

// System builds the initial bodies, from Bodies if set, else from Preset.
func (c *Config) System() (physics.System, error) {
	if len(c.Bodies) == 0 {
		p, ok := presets[c.Preset]
		if !ok {
			return physics.System{}, fmt.Errorf("%q: %w", c.Preset, dynamo.ErrUnknownPreset)
		}
		return p.system(), nil
	}
	if len(c.Bodies) != 3 {
		return physics.System{}, fmt.Errorf("need exactly 3 bodies, got %d: %w", len(c.Bodies), dynamo.ErrParameterBounds)
	}
	var s physics.System
	for i, bc := range c.Bodies {
		b, err := physics.NewBody(mgl64.Vec3(bc.Position), mgl64.Vec3(bc.Velocity), bc.Mass)
		if err != nil {
			return physics.System{}, fmt.Errorf("body %d: %w", i+1, err)
		}
		s[i] = b
	}
	return s, nil
}

func (c *Config) Gravity() *physics.Gravity {
	g := physics.NewGravity(c.G)
	g.MinSeparation = c.MinSeparation
	return g
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{Dt: c.Dt, Substeps: c.Substeps}
}

// Colors returns the configured body colours, falling back to red, cyan and
// yellow.
func (c *Config) Colors() [3]string {
	colors := defaultColors
	for i, bc := range c.Bodies {
		if i < 3 && bc.Color != "" {
			colors[i] = bc.Color
		}
	}
	return colors
}

// SetBodies replaces Bodies with an explicit copy of s, so a saved config is
// self-contained.
func (c *Config) SetBodies(s physics.System) {
	colors := c.Colors()
	c.Bodies = make([]BodyConfig, 3)
	for i, b := range s {
		c.Bodies[i] = BodyConfig{
			Name:     fmt.Sprintf("body%d", i+1),
			Position: b.Position,
			Velocity: b.Velocity,
			Mass:     b.Mass,
			Color:    colors[i],
		}
	}
}
