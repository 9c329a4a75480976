package preprocess

import (
	"sync"

	"gonum.org/v1/gonum/fourier"
)

// fftPlans caches one *fourier.FFT per transform length, since constructing
// a plan pre-computes twiddle factors and FFTFilter is typically called
// repeatedly at a small number of fixed trace lengths.
var (
	fftPlansMu sync.Mutex
	fftPlans   = map[int]*fourier.FFT{}
)

func fftPlanFor(n int) *fourier.FFT {
	fftPlansMu.Lock()
	defer fftPlansMu.Unlock()

	if plan, ok := fftPlans[n]; ok {
		return plan
	}
	plan := fourier.NewFFT(n)
	fftPlans[n] = plan
	return plan
}

// FFTFilter zeroes every real-FFT coefficient outside [start, stop), then
// inverse-transforms and rescales, a brick-wall bandpass. gonum's
// fourier.FFT does not normalize its inverse transform, so the raw result
// is always divided down before it is comparable to in.
//
// If *scale is zero on entry, FFTFilter autoscales: it computes min and max
// over the raw (unnormalized) inverse transform, sets *offset to min and
// *scale to 255/(max-min), and writes both back to the caller. If *scale is
// already non-zero, it is divided by len(in) in place and *offset is used as
// supplied; a scale written back by an earlier autoscaling call is therefore
// divided by len(in) again when passed in. Either way the output is
// (raw[i]-*offset)*(*scale).
func FFTFilter(in []float64, start, stop int, scale, offset *float64) []float64 {
	n := len(in)
	plan := fftPlanFor(n)

	coeffs := plan.Coefficients(nil, in)
	for i := range coeffs {
		if i < start || i >= stop {
			coeffs[i] = 0
		}
	}

	out := plan.Sequence(nil, coeffs)

	if *scale == 0 {
		min, max := out[0], out[0]
		for _, v := range out {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		*offset = min
		*scale = 255 / (max - min)
	} else {
		*scale /= float64(n)
	}

	for i, v := range out {
		out[i] = (v - *offset) * *scale
	}

	return out
}
