package raster

// Rasterize segments a long acquisition in into fixed-length operations by
// locking onto the edge template's repeated appearance. raster is the
// target samples-per-operation width; edge is the short matched-filter
// pattern characteristic of each operation's start.
//
// On success it returns the concatenated resampled operations (each exactly
// raster samples, so output length is a multiple of raster) and the number
// of pause regions seen before the first operation, which always equals
// cfg.MinPause. On failure it returns one of ErrShapeTooShort, ErrAlignment,
// ErrTooManyPauses or ErrUnexpectedPauseCount and discards any partial
// output. Callers should treat the whole acquisition as unusable and
// non-retryable at this layer.
func Rasterize(cfg Config, in []float64, raster int, edge []float64) ([]float64, int, error) {
	edgeLen := len(edge)
	if len(in) < cfg.HeaderSize+edgeLen {
		return nil, 0, ErrShapeTooShort
	}

	body := in[cfg.HeaderSize:]
	n := len(body) - edgeLen
	if n <= 0 {
		return nil, 0, ErrShapeTooShort
	}

	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		scores[i] = Compare(body[i:i+edgeLen], edge)
	}

	var out []float64
	lastPos := -1
	pausePhase := 0

	for i := 0; i < n; {
		if scores[i] >= cfg.Trigger {
			i++
			continue
		}

		// Refine the candidate to the local minimum over the next R/2
		// samples, then advance past the whole refinement window.
		end := i + raster/2
		if end >= n {
			end = n - 1
		}
		minPos := i
		minVal := scores[i]
		for j := i + 1; j <= end; j++ {
			if scores[j] < minVal {
				minVal = scores[j]
				minPos = j
			}
		}

		if lastPos >= 0 {
			distance := minPos - lastPos

			if pausePhase >= cfg.MinPause && float64(distance) < cfg.PauseTrigger/2 {
				lower := 0.9 * float64(raster-5)
				upper := 1.1 * float64(raster)
				if float64(distance) < lower || float64(distance) > upper {
					return nil, 0, ErrAlignment
				}

				segment := body[lastPos : lastPos+distance]
				resampled := make([]float64, raster)
				if err := Spline(resampled, segment); err != nil {
					return nil, 0, err
				}
				out = append(out, resampled...)
			}

			if float64(distance) > cfg.PauseTrigger {
				pausePhase++
				if pausePhase >= cfg.MaxPause {
					return nil, 0, ErrTooManyPauses
				}
			}
		}

		lastPos = minPos
		i = end + 1
	}

	if pausePhase != cfg.MinPause {
		return nil, 0, ErrUnexpectedPauseCount
	}

	return out, pausePhase, nil
}
