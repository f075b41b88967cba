package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/physics"
)

// MomentumDrift is the largest |p(t) - p(0)| seen. With no external force
// it should stay at rounding level.
type MomentumDrift struct {
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(s physics.System, t float64) {
	p := s.Momentum()
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}

type AngularMomentumDrift struct {
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift { return &AngularMomentumDrift{} }

func (a *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (a *AngularMomentumDrift) Observe(s physics.System, t float64) {
	l := s.AngularMomentum()
	if a.samples == 0 {
		a.initial = l
	}
	a.samples++
	a.maxDrift = math.Max(a.maxDrift, l.Sub(a.initial).Len())
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = mgl64.Vec3{}
	a.maxDrift = 0
	a.samples = 0
}

// ClosestApproach is the smallest pair separation observed.
type ClosestApproach struct {
	min     float64
	samples int
}

func NewClosestApproach() *ClosestApproach { return &ClosestApproach{min: math.Inf(1)} }

func (c *ClosestApproach) Name() string { return "closest_approach" }

func (c *ClosestApproach) Observe(s physics.System, t float64) {
	d, _, _ := s.MinSeparation()
	c.min = math.Min(c.min, d)
	c.samples++
}

func (c *ClosestApproach) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.min
}

func (c *ClosestApproach) Reset() {
	c.min = math.Inf(1)
	c.samples = 0
}
