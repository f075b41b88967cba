package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FigureEight returns the Chenciner-Montgomery periodic orbit for three unit
// masses with G = 1. The period is about 6.3259.
func FigureEight() System {
	return System{
		{Position: mgl64.Vec3{0.97000436, -0.24308753, 0}, Velocity: mgl64.Vec3{0.466203685, 0.43236573, 0}, Mass: 1},
		{Position: mgl64.Vec3{-0.97000436, 0.24308753, 0}, Velocity: mgl64.Vec3{0.466203685, 0.43236573, 0}, Mass: 1},
		{Position: mgl64.Vec3{0, 0, 0}, Velocity: mgl64.Vec3{-0.93240737, -0.86473146, 0}, Mass: 1},
	}
}

// FigureEightSource is a perturbed figure-eight: body 1 starts at x = 1
// and body 3 has a positive x velocity, so the system carries net momentum
// and drifts.
func FigureEightSource() System {
	return System{
		{Position: mgl64.Vec3{1, -0.24308753, 0}, Velocity: mgl64.Vec3{0.466203685, 0.4321573, 0}, Mass: 1},
		{Position: mgl64.Vec3{-0.97000436, 0.24308753, 0}, Velocity: mgl64.Vec3{0.466203685, 0.4321573, 0}, Mass: 1},
		{Position: mgl64.Vec3{0, 0, 0}, Velocity: mgl64.Vec3{0.93240737, -0.8643146, 0}, Mass: 1},
	}
}

// Lagrange places three unit masses on an equilateral triangle of
// circumradius 1, rotating rigidly. Valid for G = 1.
func Lagrange() System {
	omega := math.Sqrt(1 / math.Sqrt(3))
	var s System
	for i := range s {
		angle := float64(i) * 2 * math.Pi / 3
		sin, cos := math.Sincos(angle)
		s[i] = Body{
			Position: mgl64.Vec3{cos, sin, 0},
			Velocity: mgl64.Vec3{-sin * omega, cos * omega, 0},
			Mass:     1,
		}
	}
	return s
}

// Pythagorean is Burrau's problem: masses 3, 4 and 5 at rest on the corners
// of a 3-4-5 triangle. It has several very close encounters.
func Pythagorean() System {
	return System{
		{Position: mgl64.Vec3{1, 3, 0}, Mass: 3},
		{Position: mgl64.Vec3{-2, -1, 0}, Mass: 4},
		{Position: mgl64.Vec3{1, -1, 0}, Mass: 5},
	}
}
