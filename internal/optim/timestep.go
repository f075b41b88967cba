package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/experiment"
	"github.com/san-kum/threebody/internal/physics"
)

// TimestepQuery asks for the largest dt among Candidates that keeps the
// relative energy drift of Integrator below Tolerance over Duration.
type TimestepQuery struct {
	Integrator string
	Candidates []float64
	Duration   float64
	Tolerance  float64
}

// LargestStableDt grid-searches q.Candidates. ok is false when no
// candidate meets the tolerance.
func LargestStableDt(ctx context.Context, g *physics.Gravity, s0 physics.System, q TimestepQuery) (dt float64, ok bool, err error) {
	if q.Duration <= 0 || q.Tolerance <= 0 {
		return 0, false, fmt.Errorf("duration=%g tolerance=%g: %w", q.Duration, q.Tolerance, dynamo.ErrParameterBounds)
	}
	if q.Integrator == "" {
		q.Integrator = experiment.Core
	}

	search, err := NewGridSearch([]string{"dt"}, [][]float64{q.Candidates})
	if err != nil {
		return 0, false, err
	}

	objective := func(ctx context.Context, params map[string]float64) (float64, error) {
		dt := params["dt"]
		if dt <= 0 {
			return 0, fmt.Errorf("dt %g: %w", dt, dynamo.ErrParameterBounds)
		}
		steps := int(math.Ceil(q.Duration / dt))
		out, err := experiment.Run(ctx, g, s0, experiment.Config{Integrator: q.Integrator, Dt: dt, Steps: steps})
		if err != nil {
			return 0, err
		}
		if out.Err != nil || out.EnergyDrift > q.Tolerance {
			return math.Inf(1), nil
		}
		return -dt, nil
	}

	best, _, err := search.Search(ctx, objective)
	if err != nil {
		return 0, false, err
	}
	if best == nil {
		return 0, false, nil
	}
	return best["dt"], true, nil
}
