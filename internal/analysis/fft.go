package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitude of each non-negative frequency bin of
// data after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	coeff := fourier.NewFFT(len(data)).Coefficients(nil, centered)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantFrequency is the frequency in Hz of the strongest non-constant
// component of data sampled every dt seconds. It is 0 for flat data.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if best == 0 || ps[best] < 1e-12 {
		return 0
	}
	return float64(best) / (float64(len(data)) * dt)
}
