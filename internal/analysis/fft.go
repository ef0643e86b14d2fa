package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/rigid2d/internal/sim"
)

// Series extracts column col from every state. States too short for col
// contribute NaN.
func Series(states []sim.State, col int) []float64 {
	out := make([]float64, len(states))
	for i, s := range states {
		if col < len(s) {
			out[i] = s[col]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// PowerSpectrum returns the magnitude of the first half of the discrete
// Fourier transform of data. Any length works.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest bin after
// removing the mean, and its magnitude. Series sampled every dt seconds.
func DominantFrequency(data []float64, dt float64) (float64, float64) {
	if len(data) < 4 || dt <= 0 {
		return 0, 0
	}

	var mean float64
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best, power := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > power {
			best, power = i, ps[i]
		}
	}
	if best == 0 {
		return 0, 0
	}
	return float64(best) / (float64(len(data)) * dt), power
}
