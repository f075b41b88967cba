package physics

import "github.com/go-gl/mathgl/mgl64"

// DefaultG is the gravitational parameter of the dimensionless figure-eight
// solution. It is not the SI constant.
const DefaultG = 1.0

// Gravity holds the force-law configuration.
type Gravity struct {
	G float64
	// MinSeparation makes StepChecked reject any stage whose closest pair is
	// nearer than this distance. Zero only rejects non-finite stages.
	MinSeparation float64
}

func NewGravity(g float64) *Gravity {
	return &Gravity{G: g}
}

// Force returns the acceleration body b imparts on body a:
//
//	(b.Position - a.Position) * G * b.Mass / |b.Position - a.Position|^3
//
// Identical positions divide zero by zero and the result is NaN.
func (g *Gravity) Force(a, b Body) mgl64.Vec3 {
	r := b.Position.Sub(a.Position)
	d := r.Len()
	return r.Mul(g.G * b.Mass / (d * d * d))
}

// Slope is the time derivative of one body: dPosition/dt and dVelocity/dt.
type Slope struct {
	Velocity     mgl64.Vec3
	Acceleration mgl64.Vec3
}

// Derivative holds one slope per body, in system order.
type Derivative [3]Slope

// Vectors flattens the derivative in (v1, a1, v2, a2, v3, a3) order.
func (d Derivative) Vectors() [6]mgl64.Vec3 {
	return [6]mgl64.Vec3{
		d[0].Velocity, d[0].Acceleration,
		d[1].Velocity, d[1].Acceleration,
		d[2].Velocity, d[2].Acceleration,
	}
}

func (d Derivative) IsFinite() bool {
	for _, v := range d.Vectors() {
		if !finite(v) {
			return false
		}
	}
	return true
}

// Derive evaluates the derivative of s. Each acceleration is the sum of
// the pairwise forces from the other two bodies. s is not modified.
func (g *Gravity) Derive(s System) Derivative {
	var d Derivative
	for i := range s {
		d[i].Velocity = s[i].Velocity
		for j := range s {
			if i == j {
				continue
			}
			d[i].Acceleration = d[i].Acceleration.Add(g.Force(s[i], s[j]))
		}
	}
	return d
}
