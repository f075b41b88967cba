package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
)

// Frame is what the driver publishes after each batch of sub-steps.
type Frame struct {
	Index     int
	Step      int
	Time      float64
	Positions [3]mgl64.Vec3
	System    physics.System
}

// Sink consumes frames. It must not hold on to the driver.
type Sink interface {
	OnFrame(f Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(f Frame)

func (fn SinkFunc) OnFrame(f Frame) { fn(f) }

type Config struct {
	Dt       float64
	Substeps int
}

func DefaultConfig() Config {
	return Config{
		Dt:       0.0005,
		Substeps: 10,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if c.Substeps < 1 {
		return fmt.Errorf("substeps must be at least 1, got %d: %w", c.Substeps, dynamo.ErrParameterBounds)
	}
	return nil
}

type Result struct {
	Frames      int
	Steps       int
	Time        float64
	Final       physics.System
	Metrics     map[string]float64
	EnergyDrift float64
}
