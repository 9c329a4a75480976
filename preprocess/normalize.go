package preprocess

import (
	"gonum.org/v1/gonum/floats"
)

// Analysis holds the four summary statistics Analyze computes in one pass.
type Analysis struct {
	Average  float64
	Variance float64
	Min      float64
	Max      float64
}

// Analyze computes average, population variance, min and max over in,
// the equivalent of the original analyze() out-param quadruple.
func Analyze(in []float64) Analysis {
	min, max := floats.Min(in), floats.Max(in)
	avg := floats.Sum(in) / float64(len(in))

	variance := 0.0
	for _, v := range in {
		dev := v - avg
		variance += dev * dev / float64(len(in))
	}

	return Analysis{Average: avg, Variance: variance, Min: min, Max: max}
}

// Normalize linearly rescales in from [min, max] onto [typeMin, typeMax].
// If any sample lies outside [min, max] it returns a *RangeError
// identifying the first offending index and returns no output.
func Normalize(in []float64, min, max, typeMin, typeMax float64) ([]float64, error) {
	scale := (typeMax - typeMin) / (max - min)
	out := make([]float64, len(in))
	for i, v := range in {
		if v > max || v < min {
			return nil, &RangeError{Index: i}
		}
		out[i] = (v-min)*scale + typeMin
	}
	return out, nil
}

// NormalizeAvg re-centers in around targetAvg (the output type's natural
// center) without rescaling, failing with ErrOverflow if that re-centering
// would push any sample outside [typeMin, typeMax], matching the original
// normalize_avg's saturation check, computed once from Analyze's average
// rather than per-sample.
func NormalizeAvg(in []float64, targetAvg, typeMin, typeMax float64) ([]float64, error) {
	a := Analyze(in)

	if a.Max-a.Average > typeMax-targetAvg || a.Average-a.Min > targetAvg-typeMin {
		return nil, ErrOverflow
	}

	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = v - a.Average + targetAvg
	}
	return out, nil
}
