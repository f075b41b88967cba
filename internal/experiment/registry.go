package experiment

import (
	"fmt"
	"strings"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/integrators"
	"github.com/san-kum/threebody/internal/physics"
)

// Core names the checked three-body RK4 stepper the driver uses. Every
// other name refers to a flat-state integrator.
const Core = "core"

// stepper advances one system by dt.
type stepper interface {
	step(t, dt float64) error
	system() physics.System
}

type coreStepper struct {
	g *physics.Gravity
	s physics.System
}

func (c *coreStepper) step(_, dt float64) error { return c.g.StepChecked(&c.s, dt) }
func (c *coreStepper) system() physics.System   { return c.s }

type flatStepper struct {
	flat  *physics.Flat
	integ dynamo.Integrator
	x     dynamo.State
}

func (f *flatStepper) step(t, dt float64) error {
	next := f.integ.Step(f.flat, f.x, t, dt)
	if !next.IsValid() {
		return dynamo.ErrInvalidState
	}
	f.x = next
	return nil
}

func (f *flatStepper) system() physics.System { return f.flat.Unpack(f.x) }

// Names lists every stepper Run accepts, core first.
func Names() []string {
	return append([]string{Core}, integrators.Names()...)
}

func newStepper(name string, g *physics.Gravity, s0 physics.System) (stepper, error) {
	if name == Core {
		return &coreStepper{g: g, s: s0}, nil
	}
	integ, ok := integrators.New(name)
	if !ok {
		return nil, fmt.Errorf("integrator %q (available: %s): %w", name, strings.Join(Names(), ", "), dynamo.ErrParameterBounds)
	}
	return &flatStepper{
		flat:  physics.NewFlat(g, s0.Masses()),
		integ: integ,
		x:     physics.Pack(s0),
	}, nil
}
