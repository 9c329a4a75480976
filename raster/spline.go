package raster

// Spline resamples in (length insize) to out (length outsize) by linear
// interpolation. For output index i it takes x = i*(insize-1)/(outsize-1),
// a = floor(x), and emits in[a]*(1-(x-a)) + in[a+1]*(x-a). The last output
// sample always equals the last input sample exactly: at i = outsize-1, x is
// pinned to insize-1 rather than taken from the rounded product.
func Spline(out, in []float64) error {
	outsize, insize := len(out), len(in)
	if insize < 2 || outsize < 2 {
		return ErrBadSplineSize
	}

	scale := float64(insize-1) / float64(outsize-1)
	for i := 0; i < outsize; i++ {
		x := float64(i) * scale
		a := int(x)
		if i == outsize-1 || a >= insize-1 {
			// At the last output index the product can round just below
			// or above insize-1; pin x there so the endpoint is exact and
			// in[insize] is never read.
			a = insize - 2
			x = float64(insize - 1)
		}
		frac := x - float64(a)
		out[i] = in[a]*(1-frac) + in[a+1]*frac
	}

	return nil
}
