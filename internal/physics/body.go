package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/dynamo"
)

// Body is a single point mass.
type Body struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Mass     float64
}

// NewBody validates and returns a body. Mass must be positive and finite and
// both vectors must be finite.
func NewBody(position, velocity mgl64.Vec3, mass float64) (Body, error) {
	if mass <= 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return Body{}, fmt.Errorf("mass %v: %w", mass, dynamo.ErrInvalidMass)
	}
	if !finite(position) || !finite(velocity) {
		return Body{}, fmt.Errorf("body vectors: %w", dynamo.ErrInvalidState)
	}
	return Body{Position: position, Velocity: velocity, Mass: mass}, nil
}

func (b Body) IsValid() bool {
	return b.Mass > 0 && !math.IsInf(b.Mass, 0) && finite(b.Position) && finite(b.Velocity)
}

func (b Body) String() string {
	return fmt.Sprintf("m=%.4f p=[%.6f %.6f %.6f] v=[%.6f %.6f %.6f]",
		b.Mass, b.Position[0], b.Position[1], b.Position[2],
		b.Velocity[0], b.Velocity[1], b.Velocity[2])
}

// System is the ordered triple of bodies. Slot order only decides which
// index holds which body.
type System [3]Body

// NewSystem validates each body.
func NewSystem(b1, b2, b3 Body) (System, error) {
	s := System{b1, b2, b3}
	for i, b := range s {
		if _, err := NewBody(b.Position, b.Velocity, b.Mass); err != nil {
			return System{}, fmt.Errorf("body %d: %w", i+1, err)
		}
	}
	return s, nil
}

func (s System) IsFinite() bool {
	for _, b := range s {
		if !finite(b.Position) || !finite(b.Velocity) {
			return false
		}
	}
	return true
}

// Positions copies out the three positions.
func (s System) Positions() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{s[0].Position, s[1].Position, s[2].Position}
}

func (s System) Masses() [3]float64 {
	return [3]float64{s[0].Mass, s[1].Mass, s[2].Mass}
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
