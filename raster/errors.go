package raster

import "errors"

// Sentinel errors returned by this package. Callers should match them with
// errors.Is; none of them are ever panicked. Panics are reserved for
// programmer errors (e.g. mismatched slice lengths passed by package code
// itself, not by acquisition data).
var (
	// ErrShapeTooShort is returned when a raw trace is shorter than the
	// configured header plus the edge template length.
	ErrShapeTooShort = errors.New("raster: trace shorter than header + edge length")

	// ErrAlignment is returned when an inter-edge distance falls outside
	// the [0.9*(R-5), 1.1*R] tolerance for an operation region.
	ErrAlignment = errors.New("raster: inter-edge distance outside tolerance")

	// ErrTooManyPauses is returned when pause_phase reaches MaxPause
	// before the scan completes.
	ErrTooManyPauses = errors.New("raster: pause count exceeded configured maximum")

	// ErrUnexpectedPauseCount is returned when the scan finishes without
	// pause_phase having reached exactly MinPause.
	ErrUnexpectedPauseCount = errors.New("raster: acquisition did not contain the expected leading pause region")

	// ErrBadSplineSize is returned by Spline when outsize or insize < 2.
	ErrBadSplineSize = errors.New("raster: spline requires insize >= 2 and outsize >= 2")
)
