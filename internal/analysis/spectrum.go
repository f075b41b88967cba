package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/threebody/internal/dynamo"
)

// padFactor controls the zero padding applied before peak search. Padding
// interpolates the spectrum so the peak bin lands close to the true
// frequency even when the record holds only a few cycles.
const padFactor = 4

// PowerSpectrum returns the squared magnitudes of the non-negative
// frequency bins of data.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	spec := fft.FFTReal(data)
	ps := make([]float64, len(spec)/2+1)
	for i := range ps {
		m := cmplx.Abs(spec[i])
		ps[i] = m * m
	}
	return ps
}

// EstimatePeriod returns the period of the strongest oscillation in series,
// sampled every sampleDt. The series is mean-removed, Hann windowed and zero
// padded; the peak bin is refined by parabolic interpolation.
func EstimatePeriod(series []float64, sampleDt float64) (float64, error) {
	n := len(series)
	if n < 4 {
		return 0, fmt.Errorf("need at least 4 samples, got %d: %w", n, dynamo.ErrParameterBounds)
	}
	if sampleDt <= 0 {
		return 0, fmt.Errorf("sample spacing must be positive, got %g: %w", sampleDt, dynamo.ErrParameterBounds)
	}

	mean := 0.0
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("series contains %v: %w", v, dynamo.ErrInvalidState)
		}
		mean += v
	}
	mean /= float64(n)

	padded := make([]float64, padFactor*nextPow2(n))
	for i, v := range series {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		padded[i] = (v - mean) * w
	}

	ps := PowerSpectrum(padded)
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, fmt.Errorf("series is constant: %w", dynamo.ErrInvalidState)
	}

	k := float64(peak)
	if peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if den := a - 2*b + c; den != 0 {
			k += 0.5 * (a - c) / den
		}
	}
	return float64(len(padded)) * sampleDt / k, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
