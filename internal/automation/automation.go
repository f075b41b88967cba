package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/config"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/physics"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted list of runs read from YAML.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one preset with one integrator. Zero Dt or G fall back
// to the preset's values.
type ScenarioStep struct {
	Preset     string  `yaml:"preset"`
	Integrator string  `yaml:"integrator"`
	Duration   float64 `yaml:"duration"`
	Dt         float64 `yaml:"dt"`
	G          float64 `yaml:"g"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps: %w", path, dynamo.ErrParameterBounds)
	}
	return &scenario, nil
}

// RunScenario executes the steps in order. progress, if non-nil, is called
// before each step. The outcomes of completed steps are returned alongside
// any error.
func RunScenario(ctx context.Context, scenario *Scenario, progress func(i int, step ScenarioStep)) ([]experiment.Outcome, error) {
	outcomes := make([]experiment.Outcome, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if progress != nil {
			progress(i, step)
		}

		cfg, err := config.GetPreset(step.Preset)
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Dt != 0 {
			cfg.Dt = step.Dt
		}
		if step.G != 0 {
			cfg.G = step.G
		}
		if step.Integrator == "" {
			step.Integrator = experiment.Core
		}
		if step.Duration <= 0 {
			return outcomes, fmt.Errorf("step %d: duration must be positive, got %g: %w", i+1, step.Duration, dynamo.ErrParameterBounds)
		}
		if err := cfg.Validate(); err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}
		s0, err := cfg.System()
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}

		out, err := experiment.Run(ctx, cfg.Gravity(), s0, experiment.Config{
			Integrator: step.Integrator,
			Dt:         cfg.Dt,
			Steps:      stepsFor(step.Duration, cfg.Dt),
		})
		if err != nil {
			return outcomes, fmt.Errorf("step %d run: %w", i+1, err)
		}
		outcomes = append(outcomes, out)
	}

	return outcomes, nil
}

func stepsFor(duration, dt float64) int {
	return int(math.Ceil(duration/dt - 1e-9))
}

// Fate classifies how a perturbed trial ended.
type Fate int

const (
	Bounded Fate = iota
	Escaped
	Failed
)

func (f Fate) String() string {
	switch f {
	case Bounded:
		return "bounded"
	case Escaped:
		return "escaped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Fate(%d)", int(f))
}

// MonteCarloConfig kicks every velocity component of Base by a uniform
// random amount in [-Perturbation, Perturbation] and integrates each trial
// for Duration.
type MonteCarloConfig struct {
	Integrator   string
	Gravity      *physics.Gravity
	Base         physics.System
	Perturbation float64
	Trials       int
	Duration     float64
	Dt           float64
	// EscapeRadius is the distance from the centre of mass beyond which a
	// body counts as ejected.
	EscapeRadius float64
	// Seed 0 seeds from the clock.
	Seed int64
	// Workers bounds concurrent trials; 0 means GOMAXPROCS.
	Workers int
}

func (c *MonteCarloConfig) Validate() error {
	switch {
	case c.Gravity == nil:
		return fmt.Errorf("gravity is required: %w", dynamo.ErrParameterBounds)
	case c.Trials < 1:
		return fmt.Errorf("trials must be at least 1, got %d: %w", c.Trials, dynamo.ErrParameterBounds)
	case c.Perturbation < 0:
		return fmt.Errorf("perturbation must be non-negative, got %g: %w", c.Perturbation, dynamo.ErrParameterBounds)
	case c.Dt <= 0 || c.Duration <= 0:
		return fmt.Errorf("dt=%g duration=%g: %w", c.Dt, c.Duration, dynamo.ErrParameterBounds)
	case c.EscapeRadius <= 0:
		return fmt.Errorf("escape radius must be positive, got %g: %w", c.EscapeRadius, dynamo.ErrParameterBounds)
	}
	return nil
}

type MonteCarloResult struct {
	Trial   int
	Initial physics.System
	Final   physics.System
	Fate    Fate
	Err     error
}

// RunMonteCarlo runs the trials concurrently. Perturbations are drawn up
// front so a fixed seed reproduces the same results regardless of
// scheduling.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	integrator := cfg.Integrator
	if integrator == "" {
		integrator = experiment.Core
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, cfg.Trials)
	for trial := range results {
		s := cfg.Base
		for i := range s {
			s[i].Velocity = s[i].Velocity.Add(mgl64.Vec3{
				(rng.Float64()*2 - 1) * cfg.Perturbation,
				(rng.Float64()*2 - 1) * cfg.Perturbation,
				(rng.Float64()*2 - 1) * cfg.Perturbation,
			})
		}
		results[trial] = MonteCarloResult{Trial: trial, Initial: s}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	steps := stepsFor(cfg.Duration, cfg.Dt)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range results {
		i := i
		eg.Go(func() error {
			r := &results[i]
			out, err := experiment.Run(ctx, cfg.Gravity, r.Initial, experiment.Config{
				Integrator: integrator,
				Dt:         cfg.Dt,
				Steps:      steps,
			})
			if err != nil {
				return err
			}
			r.Final = out.Final
			r.Err = out.Err
			r.Fate = classify(out, cfg.EscapeRadius)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func classify(out experiment.Outcome, escapeRadius float64) Fate {
	if out.Err != nil {
		return Failed
	}
	com := out.Final.CenterOfMass()
	for _, b := range out.Final {
		if b.Position.Sub(com).Len() > escapeRadius {
			return Escaped
		}
	}
	return Bounded
}

// MonteCarloStats counts trials per fate.
func MonteCarloStats(results []MonteCarloResult) map[Fate]int {
	counts := map[Fate]int{Bounded: 0, Escaped: 0, Failed: 0}
	for _, r := range results {
		counts[r.Fate]++
	}
	return counts
}

// IsCollision reports whether a failed trial ended in a close encounter
// rather than a non-finite state.
func IsCollision(r MonteCarloResult) bool {
	return errors.Is(r.Err, dynamo.ErrSingular)
}
