package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X[k]| for k in [0, n/2] after removing the mean,
// so bin 0 is zero for any non-empty series.
func PowerSpectrum(series []float64) []float64 {
	n := len(series)
	if n == 0 {
		return nil
	}

	var mean float64
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period, in ticks, of the strongest non-constant
// component of a series sampled every sampleEvery ticks. ok is false when the
// series is too short or flat.
func DominantPeriod(series []float64, sampleEvery int) (period float64, ok bool) {
	n := len(series)
	if n < 4 || sampleEvery < 1 {
		return 0, false
	}

	ps := PowerSpectrum(series)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] < 1e-12 {
		return 0, false
	}
	return float64(n) / float64(best) * float64(sampleEvery), true
}
