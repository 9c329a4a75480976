package preprocess

import (
	"errors"
	"fmt"
)

// ErrOverflow is returned by NormalizeAvg when re-centering the buffer
// would saturate the output type. No output buffer is returned on this
// error.
var ErrOverflow = errors.New("preprocess: normalize_avg would saturate the output range")

// RangeError is returned by Normalize when an input sample falls outside
// [min, max]. Index identifies the first offending sample (the Go
// equivalent of the original C API's negated return index; a structured
// error serves the same purpose without the sentinel-integer trick).
type RangeError struct {
	Index int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("preprocess: sample at index %d outside [min, max]", e.Index)
}
