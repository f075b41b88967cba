package physics

import (
	"fmt"

	"github.com/san-kum/threebody/internal/dynamo"
)

// advance returns s moved along d for time h. Positions follow the velocity
// slopes and velocities follow the acceleration slopes.
func (s System) advance(d Derivative, h float64) System {
	out := s
	for i := range out {
		out[i].Position = s[i].Position.Add(d[i].Velocity.Mul(h))
		out[i].Velocity = s[i].Velocity.Add(d[i].Acceleration.Mul(h))
	}
	return out
}

// rk4 runs the four stages on s. With check set, it stops at the first
// stage that violates the separation floor or goes non-finite.
func (g *Gravity) rk4(s System, dt float64, check bool) (System, error) {
	if check {
		if err := g.checkStage(1, s); err != nil {
			return s, err
		}
	}
	k1 := g.Derive(s)
	if check && !k1.IsFinite() {
		return s, fmt.Errorf("rk4 stage 1: %w", dynamo.ErrSingular)
	}

	half := dt * 0.5
	trial := s.advance(k1, half)
	if check {
		if err := g.checkStage(2, trial); err != nil {
			return s, err
		}
	}
	k2 := g.Derive(trial)
	if check && !k2.IsFinite() {
		return s, fmt.Errorf("rk4 stage 2: %w", dynamo.ErrSingular)
	}

	trial = s.advance(k2, half)
	if check {
		if err := g.checkStage(3, trial); err != nil {
			return s, err
		}
	}
	k3 := g.Derive(trial)
	if check && !k3.IsFinite() {
		return s, fmt.Errorf("rk4 stage 3: %w", dynamo.ErrSingular)
	}

	trial = s.advance(k3, dt)
	if check {
		if err := g.checkStage(4, trial); err != nil {
			return s, err
		}
	}
	k4 := g.Derive(trial)
	if check && !k4.IsFinite() {
		return s, fmt.Errorf("rk4 stage 4: %w", dynamo.ErrSingular)
	}

	next := s
	dt6 := dt / 6.0
	for i := range next {
		dp := k1[i].Velocity.Add(k2[i].Velocity.Mul(2)).Add(k3[i].Velocity.Mul(2)).Add(k4[i].Velocity)
		dv := k1[i].Acceleration.Add(k2[i].Acceleration.Mul(2)).Add(k3[i].Acceleration.Mul(2)).Add(k4[i].Acceleration)
		next[i].Position = s[i].Position.Add(dp.Mul(dt6))
		next[i].Velocity = s[i].Velocity.Add(dv.Mul(dt6))
	}
	if check && !next.IsFinite() {
		return s, fmt.Errorf("rk4 combine: %w", dynamo.ErrInvalidState)
	}
	return next, nil
}

func (g *Gravity) checkStage(stage int, trial System) error {
	if !trial.IsFinite() {
		return fmt.Errorf("rk4 stage %d: %w", stage, dynamo.ErrInvalidState)
	}
	if sep, _, _ := trial.MinSeparation(); sep == 0 || sep < g.MinSeparation {
		return fmt.Errorf("rk4 stage %d: separation %g: %w", stage, sep, dynamo.ErrSingular)
	}
	return nil
}

// Step advances the three bodies by dt with classical RK4, in place.
// Coincident bodies produce NaN or Inf that propagates into all three
// records; use StepChecked to refuse such a step instead.
func (g *Gravity) Step(b1, b2, b3 *Body, dt float64) {
	s := System{*b1, *b2, *b3}
	g.StepSystem(&s, dt)
	*b1, *b2, *b3 = s[0], s[1], s[2]
}

// StepSystem is Step over a System.
func (g *Gravity) StepSystem(s *System, dt float64) {
	next, _ := g.rk4(*s, dt, false)
	*s = next
}

// StepChecked advances s by dt only if every stage stays finite and above
// MinSeparation. On failure s is left untouched and the error wraps
// dynamo.ErrSingular or dynamo.ErrInvalidState.
func (g *Gravity) StepChecked(s *System, dt float64) error {
	next, err := g.rk4(*s, dt, true)
	if err != nil {
		return err
	}
	*s = next
	return nil
}
