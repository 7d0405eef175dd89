package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/songsen/servoM8/internal/servo"
)

var ErrTooShort = errors.New("analysis: need at least 4 samples")

// AmplitudeSpectrum returns the single-sided amplitude of each bin up to
// Nyquist, scaled so a sine of amplitude A on a bin center reads A.
func AmplitudeSpectrum(data []float64) []float64 {
	n := len(data)
	coeff := fourier.NewFFT(n).Coefficients(nil, data)
	amp := make([]float64, n/2)
	for i := range amp {
		amp[i] = cmplx.Abs(coeff[i]) / float64(n)
		if i > 0 {
			amp[i] *= 2
		}
	}
	return amp
}

// Report summarizes the oscillation of a run.
type Report struct {
	Samples    int     // samples analyzed, a power of two
	Mean       float64 // mean seek - position over the window
	Peak       float64 // largest |error - mean|
	Frequency  float64 // Hz of the strongest non-DC bin
	Amplitude  float64 // counts at Frequency
	Resolution float64 // Hz per bin
}

// Hunting reports whether the loop oscillates by more than threshold
// counts at its dominant frequency.
func (r Report) Hunting(threshold float64) bool {
	return r.Amplitude > threshold
}

// Analyze takes the largest power-of-two tail of samples, removes the mean
// tracking error and finds the strongest frequency left.
func Analyze(samples []servo.Sample, sampleRate float64) (Report, error) {
	n := floorPow2(len(samples))
	if n < 4 {
		return Report{}, ErrTooShort
	}
	tail := samples[len(samples)-n:]

	errs := make([]float64, n)
	for i, s := range tail {
		errs[i] = float64(s.Target()) - float64(s.Position)
	}
	mean := stat.Mean(errs, nil)

	peak := 0.0
	for i := range errs {
		errs[i] -= mean
		peak = max(peak, math.Abs(errs[i]))
	}

	amp := AmplitudeSpectrum(errs)
	best := 1
	for i := 2; i < len(amp); i++ {
		if amp[i] > amp[best] {
			best = i
		}
	}

	res := sampleRate / float64(n)
	return Report{
		Samples:    n,
		Mean:       mean,
		Peak:       peak,
		Frequency:  float64(best) * res,
		Amplitude:  amp[best],
		Resolution: res,
	}, nil
}

func floorPow2(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	if n < 1 {
		return 0
	}
	return p
}
