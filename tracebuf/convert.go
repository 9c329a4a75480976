package tracebuf

// ToFloat64 widens every sample to float64, the representation the
// correlation and filtering math is done in regardless of the buffer's
// storage width.
func ToFloat64[T Sample](b *Buffer[T]) []float64 {
	out := make([]float64, len(b.data))
	for i, v := range b.data {
		out[i] = float64(v)
	}
	return out
}

// FillFrom narrows src (typically produced by numeric code working in
// float64) into b, truncating/rounding per Go's normal numeric conversion
// rules. len(src) must equal b.Len().
func (b *Buffer[T]) FillFrom(src []float64) {
	for i, v := range src {
		b.data[i] = T(v)
	}
}
