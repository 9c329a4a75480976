// Package correlator implements the streaming Pearson correlator: an
// online estimator that ingests traces one at a time, in any order, from
// many producers in parallel, while holding O(H·S) intermediate state
// independent of how many traces have been seen.
//
// Locking follows a sharded-mutex pattern: one sync.Mutex per hypothesis
// column rather than a single global lock. H workers accumulate in
// parallel with only per-column contention, and one short lock covers the
// handful of scalar updates (sum, square_sum, count).
package correlator

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/doismellburning/tracecpa/stats"
	"github.com/doismellburning/tracecpa/tracebuf"
)

// Correlator accumulates per-sample, per-hypothesis cross-sums across an
// unbounded stream of traces and materializes the Pearson correlation
// matrix on demand. All buffers are allocated once at construction and
// freed with the Correlator; there is no per-trace allocation on the
// ingestion path beyond the widened copy of the incoming trace.
type Correlator struct {
	samples    int
	traces     int
	hypotheses int

	hypo [][]uint8 // H x T, caller-filled before Preprocess

	keyAvg    []float64
	keyStddev []float64

	accum   *stats.Accumulator
	multSum [][]float64 // H x S

	matrix     [][]float64
	byteMatrix [][]uint8

	keyLocks []sync.Mutex
	dataLock sync.Mutex

	count        int
	preprocessed bool
}

// New allocates a correlator for S samples per trace, T total traces and H
// key hypotheses. The hypothesis table is zeroed; fill it via Hypo() before
// calling Preprocess.
func New(samples, traces, hypotheses int) (*Correlator, error) {
	if samples <= 0 || traces <= 0 || hypotheses <= 0 {
		return nil, ErrBadShape
	}

	hypo := make([][]uint8, hypotheses)
	multSum := make([][]float64, hypotheses)
	matrix := make([][]float64, hypotheses)
	byteMatrix := make([][]uint8, hypotheses)
	for k := 0; k < hypotheses; k++ {
		hypo[k] = make([]uint8, traces)
		multSum[k] = make([]float64, samples)
		matrix[k] = make([]float64, samples)
		byteMatrix[k] = make([]uint8, samples)
	}

	return &Correlator{
		samples:    samples,
		traces:     traces,
		hypotheses: hypotheses,
		hypo:       hypo,
		keyAvg:     make([]float64, hypotheses),
		keyStddev:  make([]float64, hypotheses),
		accum:      stats.New(samples),
		multSum:    multSum,
		matrix:     matrix,
		byteMatrix: byteMatrix,
		keyLocks:   make([]sync.Mutex, hypotheses),
	}, nil
}

// Samples, Traces and Hypotheses report the fixed dimensions chosen at
// construction.
func (c *Correlator) Samples() int    { return c.samples }
func (c *Correlator) Traces() int     { return c.traces }
func (c *Correlator) Hypotheses() int { return c.hypotheses }

// Count reports how many traces have been ingested so far.
func (c *Correlator) Count() int { return c.count }

// Hypo exposes the H×T hypothesis table for bulk fill. It is not
// resizable; callers must finish populating it before calling Preprocess,
// and must not mutate it afterwards.
func (c *Correlator) Hypo() [][]uint8 { return c.hypo }

// Preprocess computes each hypothesis row's population mean and standard
// deviation. It must be called exactly once, after the hypothesis table is
// fully populated and before any UpdateMatrix call. AddTrace* may be called
// before or after it, since ingestion does not use the row statistics.
func (c *Correlator) Preprocess() {
	for k := 0; k < c.hypotheses; k++ {
		var sum, sqSum float64
		for _, v := range c.hypo[k] {
			cur := float64(v)
			sum += cur
			sqSum += cur * cur
		}
		avg := sum / float64(c.traces)
		c.keyAvg[k] = avg
		c.keyStddev[k] = math.Sqrt(sqSum/float64(c.traces) - avg*avg)
	}
	c.preprocessed = true
}

// addTrace is the generic ingestion path shared by the three exported
// overloads, one Go generic standing in for what the original expressed as
// per-sample-type code duplication. Each hypothesis column's lock is
// acquired and released independently, ascending k, then dataLock last,
// so no two locks are ever held at once.
func addTrace[T tracebuf.Sample](c *Correlator, t int, d []T) error {
	if t < 0 || t >= c.traces {
		return ErrBadTraceIndex
	}
	if len(d) != c.samples {
		return ErrShapeMismatch
	}

	widened := make([]float64, c.samples)
	for i, v := range d {
		widened[i] = float64(v)
	}

	for k := 0; k < c.hypotheses; k++ {
		c.keyLocks[k].Lock()
		key := float64(c.hypo[k][t])
		row := c.multSum[k]
		for i, v := range widened {
			row[i] += key * v
		}
		c.keyLocks[k].Unlock()
	}

	c.dataLock.Lock()
	c.accum.Add(widened)
	c.count++
	c.dataLock.Unlock()

	return nil
}

// AddTraceU8 ingests an 8-bit-sample trace under hypothesis column t.
func (c *Correlator) AddTraceU8(t int, d []uint8) error { return addTrace(c, t, d) }

// AddTraceU16 ingests a 16-bit-sample trace under hypothesis column t.
func (c *Correlator) AddTraceU16(t int, d []uint16) error { return addTrace(c, t, d) }

// AddTraceFloat ingests a float-sample trace under hypothesis column t.
func (c *Correlator) AddTraceFloat(t int, d []float32) error { return addTrace(c, t, d) }

// UpdateMatrix recomputes the Pearson correlation matrix from the current
// intermediate state. It is not parallelized and must only be called once
// ingestion workers have quiesced.
func (c *Correlator) UpdateMatrix() error {
	if !c.preprocessed {
		return ErrNotPreprocessed
	}
	if c.count == 0 {
		return ErrNoTraces
	}
	if c.count < c.traces {
		log.Warnf("correlator: preliminary result (%d / %d traces)", c.count, c.traces)
	}
	if c.count > c.traces {
		log.Warnf("correlator: too many traces ingested (%d / %d)", c.count, c.traces)
	}

	count := float64(c.count)
	min, max := math.Inf(1), math.Inf(-1)

	for k := 0; k < c.hypotheses; k++ {
		for i := 0; i < c.samples; i++ {
			meanI := c.accum.Sum[i] / count
			varI := c.accum.SquareSum[i]/count - meanI*meanI

			var r float64
			if varI > 0 && c.keyStddev[k] > 0 {
				cov := c.multSum[k][i] - c.accum.Sum[i]*c.keyAvg[k]
				r = cov / (math.Sqrt(varI) * c.keyStddev[k] * count)
			}

			c.matrix[k][i] = r
			if r > max {
				max = r
			}
			if r < min {
				min = r
			}
		}
	}

	span := max - min
	for k := 0; k < c.hypotheses; k++ {
		for i := 0; i < c.samples; i++ {
			if span == 0 {
				c.byteMatrix[k][i] = 0
				continue
			}
			c.byteMatrix[k][i] = uint8(math.Round((c.matrix[k][i] - min) * 255 / span))
		}
	}

	return nil
}

// Matrix returns the last materialized Pearson correlation matrix, H rows
// of S samples each. The returned slices are borrowed; callers must not
// retain them past the next UpdateMatrix call.
func (c *Correlator) Matrix() [][]float64 { return c.matrix }

// ByteMatrix returns the last materialized matrix rescaled to 0..255.
func (c *Correlator) ByteMatrix() [][]uint8 { return c.byteMatrix }
