package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/dynamo"
)

// FlatDim is the length of a packed three-body state.
const FlatDim = 18

// Flat exposes the three-body equations as a dynamo.System over
// [p1 p2 p3 v1 v2 v3], positions in the first half and velocities in the
// second, as the second-order steppers expect.
type Flat struct {
	gravity *Gravity
	masses  [3]float64
}

func NewFlat(g *Gravity, masses [3]float64) *Flat {
	return &Flat{gravity: g, masses: masses}
}

func (f *Flat) StateDim() int { return FlatDim }

func (f *Flat) Derive(x dynamo.State, _ float64) dynamo.State {
	d := f.gravity.Derive(f.Unpack(x))
	dx := make(dynamo.State, FlatDim)
	for i := range d {
		copy(dx[i*3:i*3+3], d[i].Velocity[:])
		copy(dx[9+i*3:9+i*3+3], d[i].Acceleration[:])
	}
	return dx
}

func (f *Flat) Energy(x dynamo.State) float64 {
	return f.gravity.Energy(f.Unpack(x))
}

// Unpack rebuilds a System from x using the adapter's masses.
func (f *Flat) Unpack(x dynamo.State) System {
	var s System
	for i := range s {
		s[i] = Body{
			Position: mgl64.Vec3{x[i*3], x[i*3+1], x[i*3+2]},
			Velocity: mgl64.Vec3{x[9+i*3], x[9+i*3+1], x[9+i*3+2]},
			Mass:     f.masses[i],
		}
	}
	return s
}

// Pack flattens s into [p1 p2 p3 v1 v2 v3].
func Pack(s System) dynamo.State {
	x := make(dynamo.State, FlatDim)
	for i, b := range s {
		copy(x[i*3:i*3+3], b.Position[:])
		copy(x[9+i*3:9+i*3+3], b.Velocity[:])
	}
	return x
}
