// Package analysis extracts orbit-level quantities from a recorded or
// freshly integrated three-body run.
//
//   - [PowerSpectrum]: power spectrum of a sampled coordinate
//   - [EstimatePeriod]: dominant period of a coordinate series
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//
// # Periodic Orbits
//
// The figure-eight choreography repeats every T ~ 6.3259 time units. The
// x coordinate of any body oscillates once per period, so
//
//	xs := make([]float64, len(samples))
//	for i, s := range samples {
//	    xs[i] = s.System[0].Position.X()
//	}
//	period, err := analysis.EstimatePeriod(xs, frameDt)
//
// recovers T from a few orbits of data.
package analysis
