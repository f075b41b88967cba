package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
	"golang.org/x/sync/errgroup"
)

// cancelCheckEvery is how many steps run between context checks.
const cancelCheckEvery = 1000

type Config struct {
	Integrator string
	Dt         float64
	Steps      int
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if c.Steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d: %w", c.Steps, dynamo.ErrParameterBounds)
	}
	return nil
}

// Outcome is the result of integrating one copy of the initial conditions.
// On failure Final holds the last good system and Err says why.
type Outcome struct {
	Integrator  string
	Final       physics.System
	Steps       int
	EnergyDrift float64
	Elapsed     time.Duration
	Err         error
}

// Run integrates s0 for cfg.Steps steps and tracks the largest relative
// energy error. Numeric failure ends the run early with a
// *dynamo.SimulationError in Outcome.Err; configuration errors and
// cancellation are returned directly.
func Run(ctx context.Context, g *physics.Gravity, s0 physics.System, cfg Config) (Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return Outcome{}, err
	}
	st, err := newStepper(cfg.Integrator, g, s0)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Integrator: cfg.Integrator, Final: s0}
	e0 := g.Energy(s0)
	start := time.Now()

	t := 0.0
	for i := 0; i < cfg.Steps; i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				out.Elapsed = time.Since(start)
				return out, err
			}
		}
		if err := st.step(t, cfg.Dt); err != nil {
			out.Err = &dynamo.SimulationError{Step: i, Time: t, State: physics.Pack(out.Final), Wrapped: err}
			break
		}
		t += cfg.Dt
		out.Steps++
		out.Final = st.system()
		if e0 != 0 {
			out.EnergyDrift = math.Max(out.EnergyDrift, math.Abs(g.Energy(out.Final)-e0)/math.Abs(e0))
		}
	}
	out.Elapsed = time.Since(start)
	return out, nil
}

// Compare runs every named integrator on its own copy of s0 concurrently.
// Outcomes are returned in the order of names. Only cancellation or a bad
// configuration fails the whole comparison; a diverging integrator reports
// through its Outcome.
func Compare(ctx context.Context, g *physics.Gravity, s0 physics.System, names []string, dt float64, steps int) ([]Outcome, error) {
	if len(names) == 0 {
		names = Names()
	}

	outcomes := make([]Outcome, len(names))
	eg, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		eg.Go(func() error {
			out, err := Run(ctx, g, s0, Config{Integrator: name, Dt: dt, Steps: steps})
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				out = Outcome{Integrator: name, Final: s0, Err: err}
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
