// Package preprocess is the signal-conditioning façade: the element-wise
// and sliding-window operators that turn a raw acquisition into a trace
// the rasterizer and correlator can use. Every function here is a
// stateless transform over plain []float64 buffers; composition is left
// to the caller, the same way the original _preprocess.c left composition
// to whatever called its functions in sequence.
package preprocess

import "gonum.org/v1/gonum/floats"

// AverageFilter is an n-point box average with stride skip, emitting
// ceil((len(in)-n+1)/skip) samples. Each output sample is
// center + (mean-center)*scale, where center is the "issigned" convention:
// 0 for unsigned-centered output, 128 for an 8-bit signed-on-center
// convention. Callers choose the value appropriate to their output
// width. The output index advances once every skip input steps starting
// at i = n-1.
func AverageFilter(in []float64, n, skip int, center, scale float64) []float64 {
	outLen := (len(in) - n + 1 + skip - 1) / skip
	if outLen < 0 {
		outLen = 0
	}
	out := make([]float64, outLen)

	var avg float64
	for i := 0; i < n-1; i++ {
		avg += in[i]
	}

	offset := 0
	for i := n - 1; i < len(in); i++ {
		avg += in[i]
		if offset%skip == 0 {
			out[offset/skip] = center + (avg/float64(n)-center)*scale
		}
		avg -= in[offset]
		offset++
	}

	return out
}

// SquareBuf returns the element-wise square of in.
func SquareBuf(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = v * v
	}
	return out
}

// AddAverage folds one trace into running sum (and, if outSquareSum is
// non-nil, sum-of-squares) accumulators of the same length as in.
func AddAverage(outSum, outSquareSum, in []float64) {
	for i, v := range in {
		outSum[i] += v
		if outSquareSum != nil {
			outSquareSum[i] += v * v
		}
	}
}

// Absolute reflects samples below middle around it, turning a bipolar
// signal into its rectified magnitude relative to middle.
func Absolute(in []float64, middle float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		if v < middle {
			out[i] = middle + (middle - v)
		} else {
			out[i] = v
		}
	}
	return out
}

// Scale applies the same center+scale convention as AverageFilter to every
// sample independently (no windowing).
func Scale(in []float64, center, scale float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	floats.AddConst(-center, out)
	floats.Scale(scale, out)
	floats.AddConst(center, out)
	return out
}

// Diff computes a-b element-wise. If absolute is true the result is always
// non-negative (|a-b|) and center is unused; otherwise center is added to
// re-bias the (possibly negative) difference into an unsigned output range,
// the same role it plays in AverageFilter/Scale.
func Diff(a, b []float64, absolute bool, center float64) []float64 {
	out := make([]float64, len(a))
	copy(out, a)
	floats.Sub(out, b)

	if absolute {
		for i, v := range out {
			if v < 0 {
				out[i] = -v
			}
		}
		return out
	}

	floats.AddConst(center, out)
	return out
}

// Integrate is a running sum over a sliding window of the given width,
// producing len(in)-samples+1 outputs, the moving-average numerator
// before division, useful as a cheap low-pass stage.
func Integrate(in []float64, samples int) []float64 {
	out := make([]float64, len(in)-samples+1)
	var tmp float64
	for i := 0; i < samples-1; i++ {
		tmp += in[i]
	}
	for i := samples - 1; i < len(in); i++ {
		tmp += in[i]
		out[i-samples+1] = tmp
		tmp -= in[i-samples+1]
	}
	return out
}

// Rectify replaces every sample with its distance from avg, |v-avg|, so the
// whole output is non-negative (the excursion magnitude from avg in either
// direction).
func Rectify(in []float64, avg float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		if v > avg {
			out[i] = v - avg
		} else {
			out[i] = avg - v
		}
	}
	return out
}

// Reorder permutes in by period-way interleaving: sample i lands at
// poff[i%period] + i/period, where poff partitions the output into period
// contiguous runs whose lengths differ by at most one. ReorderInverse
// recovers the original buffer exactly from Reorder's output.
func Reorder(in []float64, period int) []float64 {
	out := make([]float64, len(in))
	poff := make([]int, period)
	poff[0] = 0
	for i := 1; i < period; i++ {
		poff[i] = poff[i-1] + (len(in)+period-i)/period
	}
	for i, v := range in {
		out[poff[i%period]+i/period] = v
	}
	return out
}

// ReorderInverse undoes Reorder for the same period, reconstructing the
// original sample order from a reordered buffer.
func ReorderInverse(in []float64, period int) []float64 {
	out := make([]float64, len(in))
	poff := make([]int, period)
	poff[0] = 0
	for i := 1; i < period; i++ {
		poff[i] = poff[i-1] + (len(in)+period-i)/period
	}
	for i := range in {
		out[i] = in[poff[i%period]+i/period]
	}
	return out
}

// ApplyFilter convolves in with filter (a general FIR tap set, generated
// elsewhere with window functions such as Hamming/Blackman; ApplyFilter is
// the convolution step those generated taps feed into), normalizing by the
// tap sum and then applying the center+scale convention. Output length is
// len(in)-len(filter)+1.
func ApplyFilter(in, filter []float64, center, scale float64) []float64 {
	var filterSum float64
	for _, f := range filter {
		filterSum += f
	}

	outLen := len(in) - len(filter) + 1
	out := make([]float64, outLen)
	for i := 0; i < outLen; i++ {
		var tmp float64
		for j, f := range filter {
			tmp += f * in[i+j]
		}
		out[i] = center + (tmp/filterSum-center)*scale
	}
	return out
}
