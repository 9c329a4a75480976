package correlator

import "errors"

// Sentinel errors for the correlator package. All are returned, never
// panicked, and callers should match them with errors.Is.
var (
	// ErrBadShape is returned when a constructor argument is non-positive.
	ErrBadShape = errors.New("correlator: samples, traces and hypotheses must all be positive")

	// ErrShapeMismatch is returned by AddTrace* when the supplied buffer's
	// length does not equal the correlator's configured sample count.
	ErrShapeMismatch = errors.New("correlator: trace buffer length does not match sample count")

	// ErrBadTraceIndex is returned by AddTrace* when t is outside [0, traces).
	ErrBadTraceIndex = errors.New("correlator: trace index out of range")

	// ErrNotPreprocessed is returned by UpdateMatrix when Preprocess has
	// not yet been called.
	ErrNotPreprocessed = errors.New("correlator: update_matrix called before preprocess")

	// ErrNoTraces is returned by UpdateMatrix when no trace has been
	// ingested yet.
	ErrNoTraces = errors.New("correlator: update_matrix called before any trace was added")
)
