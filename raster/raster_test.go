package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCompareZeroForIdentical(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	assert.Equal(t, 0.0, Compare(a, a))
}

func TestCompareSquaredError(t *testing.T) {
	a := []float64{0, 0, 0}
	b := []float64{1, 2, 3}
	// (0-1)^2 + (0-2)^2 + (0-3)^2 = 1+4+9 = 14
	assert.Equal(t, 14.0, Compare(a, b))
}

func TestSplineIdentity(t *testing.T) {
	// Resampling a buffer to its own length is the identity for n>=2.
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 64).Draw(t, "n")
		in := rapid.SliceOfN(rapid.Float64Range(-1000, 1000), n, n).Draw(t, "in")
		out := make([]float64, n)

		require.NoError(t, Spline(out, in))

		for i := range in {
			assert.InDeltaf(t, in[i], out[i], 1e-9, "index %d", i)
		}
	})
}

func TestSplineLastPointExact(t *testing.T) {
	in := []float64{0, 10, 20, 30}
	out := make([]float64, 7)
	require.NoError(t, Spline(out, in))
	assert.Equal(t, in[len(in)-1], out[len(out)-1])
	assert.Equal(t, in[0], out[0])
}

func TestSplineRejectsTooShort(t *testing.T) {
	err := Spline(make([]float64, 1), []float64{1, 2})
	assert.ErrorIs(t, err, ErrBadSplineSize)

	err = Spline(make([]float64, 2), []float64{1})
	assert.ErrorIs(t, err, ErrBadSplineSize)
}

// TestRasterizeRoundtrip builds a synthetic acquisition carrying a recurring
// edge marker: first spaced pauseLen apart (three gaps, each longer than
// PauseTrigger, so each is counted as a pause) and then spaced raster apart
// (four gaps, each within the [0.9*(raster-5), 1.1*raster] alignment
// tolerance and below PauseTrigger/2, so each is written out as an
// operation). It checks Rasterize recovers all four operations correctly
// aligned once the leading pause count reaches MinPause.
func TestRasterizeRoundtrip(t *testing.T) {
	const header = 128
	const pauseLen = 1200
	const edgeLen = 16
	const raster = 500
	const numPauseGaps = 3
	const numOps = 4
	const trailer = 260

	edge := make([]float64, edgeLen)
	for i := range edge {
		edge[i] = float64(i + 1) // a distinctive, non-zero ramp
	}

	// Edge markers recur at pauseLen spacing for the leading pause gaps,
	// then at raster spacing for the operation gaps that follow.
	var offsets []int
	pos := 0
	for i := 0; i <= numPauseGaps; i++ {
		offsets = append(offsets, pos)
		pos += pauseLen
	}
	pos -= pauseLen // the last pause-spaced offset also starts the first operation
	for i := 0; i < numOps; i++ {
		pos += raster
		offsets = append(offsets, pos)
	}

	body := make([]float64, pos+edgeLen+trailer)
	for _, off := range offsets {
		copy(body[off:off+edgeLen], edge)
	}

	in := append(make([]float64, header), body...)

	cfg := DefaultConfig()
	out, pausePhase, err := Rasterize(cfg, in, raster, edge)
	require.NoError(t, err)
	assert.Equal(t, cfg.MinPause, pausePhase)
	require.Len(t, out, numOps*raster)

	for op := 0; op < numOps; op++ {
		segment := out[op*raster : op*raster+edgeLen]
		for i, v := range segment {
			assert.InDelta(t, edge[i], v, 1e-6, "op %d sample %d", op, i)
		}
	}
}

func TestRasterizeShapeError(t *testing.T) {
	cfg := DefaultConfig()
	_, _, err := Rasterize(cfg, make([]float64, 10), 1000, make([]float64, 16))
	assert.ErrorIs(t, err, ErrShapeTooShort)
}
