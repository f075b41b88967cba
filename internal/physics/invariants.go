package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func (s System) TotalMass() float64 {
	return s[0].Mass + s[1].Mass + s[2].Mass
}

func (s System) KineticEnergy() float64 {
	ke := 0.0
	for _, b := range s {
		ke += 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
	}
	return ke
}

// PotentialEnergy is the pairwise gravitational potential -G m_i m_j / r_ij.
func (g *Gravity) PotentialEnergy(s System) float64 {
	pe := 0.0
	for i := 0; i < len(s); i++ {
		for j := i + 1; j < len(s); j++ {
			r := s[j].Position.Sub(s[i].Position).Len()
			pe -= g.G * s[i].Mass * s[j].Mass / r
		}
	}
	return pe
}

// Energy is total mechanical energy, kinetic plus potential.
func (g *Gravity) Energy(s System) float64 {
	return s.KineticEnergy() + g.PotentialEnergy(s)
}

// Momentum is the sum of m_i * v_i.
func (s System) Momentum() mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range s {
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p
}

func (s System) AngularMomentum() mgl64.Vec3 {
	var l mgl64.Vec3
	for _, b := range s {
		l = l.Add(b.Position.Cross(b.Velocity).Mul(b.Mass))
	}
	return l
}

func (s System) CenterOfMass() mgl64.Vec3 {
	var c mgl64.Vec3
	for _, b := range s {
		c = c.Add(b.Position.Mul(b.Mass))
	}
	return c.Mul(1 / s.TotalMass())
}

func (s System) CenterOfMassVelocity() mgl64.Vec3 {
	return s.Momentum().Mul(1 / s.TotalMass())
}

// MinSeparation returns the closest pair distance and the pair's indices.
func (s System) MinSeparation() (float64, int, int) {
	best, bi, bj := math.Inf(1), 0, 1
	for i := 0; i < len(s); i++ {
		for j := i + 1; j < len(s); j++ {
			if d := s[j].Position.Sub(s[i].Position).Len(); d < best {
				best, bi, bj = d, i, j
			}
		}
	}
	return best, bi, bj
}
