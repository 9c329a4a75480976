// Package tracebuf provides the fixed-length typed sample buffers shared by
// every stage of the toolkit: raw acquisitions, rasterized traces and
// hypothesis columns are all backed by a Buffer of one of the three element
// widths a real acquisition front-end can hand us.
package tracebuf

// Sample is the set of element types a trace buffer may hold: 8-bit and
// 16-bit unsigned samples (the common ADC widths) and 32-bit float samples
// (pre-scaled or simulated data).
type Sample interface {
	~uint8 | ~uint16 | ~float32
}

// Buffer is a fixed-length, type-homogeneous sample vector. It owns its
// backing array; there is no resizing after New.
type Buffer[T Sample] struct {
	data []T
}

// New allocates a zeroed buffer of the given length.
func New[T Sample](length int) *Buffer[T] {
	return &Buffer[T]{data: make([]T, length)}
}

// FromSlice wraps an existing slice without copying. The caller must not
// mutate it through another reference afterwards.
func FromSlice[T Sample](data []T) *Buffer[T] {
	return &Buffer[T]{data: data}
}

// Len returns the number of samples.
func (b *Buffer[T]) Len() int {
	return len(b.data)
}

// At returns the raw element at index i. It panics on out-of-range i, the
// same contract Go slices already give; ValueAt and SetValue do the same.
func (b *Buffer[T]) At(i int) T {
	return b.data[i]
}

// Set stores v at index i.
func (b *Buffer[T]) Set(i int, v T) {
	b.data[i] = v
}

// Slice exposes the backing array directly, borrowed for the duration of use
// only. Callers must not retain it past the buffer's lifetime.
func (b *Buffer[T]) Slice() []T {
	return b.data
}

// ValueAt returns the sample at i widened to float64, the type-erased
// accessor a scripting binding would need (adapted from the original
// buffer_get_value helper).
func (b *Buffer[T]) ValueAt(i int) float64 {
	return float64(b.data[i])
}

// SetValue narrows v and stores it at i, the counterpart to ValueAt
// (adapted from the original buffer_set_value helper).
func (b *Buffer[T]) SetValue(i int, v float64) {
	b.data[i] = T(v)
}
