package raster

// Compare returns the sum of squared differences between a and b, the
// template-matcher's similarity score. Operands are float64 already, so
// there is no unsigned-wrap hazard the way there would be subtracting raw
// uint8 samples directly; the promotion to float happens once, at the
// call site, via tracebuf.ToFloat64.
//
// Compare is pure and total: it never errors, and panics only if a and b
// have different lengths (a programmer error, not a data error).
func Compare(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("raster: Compare operands have different lengths")
	}

	var sum float64
	for i, av := range a {
		d := av - b[i]
		sum += d * d
	}
	return sum
}
