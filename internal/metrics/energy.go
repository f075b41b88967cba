package metrics

import (
	"math"

	"github.com/san-kum/threebody/internal/physics"
)

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(s physics.System, t float64)
	Value() float64
	Reset()
}

// Defaults returns the metrics reported for every run.
func Defaults(g *physics.Gravity) []Metric {
	return []Metric{
		NewEnergyDrift(g),
		NewMomentumDrift(),
		NewAngularMomentumDrift(),
		NewClosestApproach(),
	}
}

// EnergyDrift tracks the largest relative energy error seen since the first
// observation.
type EnergyDrift struct {
	name          string
	gravity       *physics.Gravity
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g *physics.Gravity) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: g,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s physics.System, t float64) {
	energy := e.gravity.Energy(s)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current returns the relative drift of the latest observation.
func (e *EnergyDrift) Current() float64 {
	if e.initialEnergy == 0 {
		return 0
	}
	return (e.currentEnergy - e.initialEnergy) / math.Abs(e.initialEnergy)
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
