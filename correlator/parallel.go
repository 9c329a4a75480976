package correlator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/doismellburning/tracecpa/tracebuf"
)

// Source supplies the already-rasterized sample buffer for a single trace
// index, ready for ingestion.
type Source[T tracebuf.Sample] interface {
	Trace(t int) ([]T, error)
}

// IngestParallel fans AddTrace across a pool of workers (four by default),
// each assigned a disjoint, round-robin slice of traceIdxs. It blocks
// until every worker has quiesced; callers must not call UpdateMatrix
// until this returns, and must not call it concurrently with any other
// ingestion call on the same Correlator.
//
// A worker's failure (a bad shape, a bad index, or a Source error) cancels
// the remaining workers via the shared context and is returned to the
// caller; traces already ingested by other workers remain in the
// Correlator's state, since a trace's contribution cannot be undone once
// added.
func IngestParallel[T tracebuf.Sample](ctx context.Context, c *Correlator, traceIdxs []int, src Source[T], workers int) error {
	if workers <= 0 {
		workers = 4
	}
	if workers > len(traceIdxs) {
		workers = len(traceIdxs)
	}
	if workers == 0 {
		return nil
	}

	chunks := make([][]int, workers)
	for i, t := range traceIdxs {
		chunks[i%workers] = append(chunks[i%workers], t)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, chunk := range chunks {
		chunk := chunk
		g.Go(func() error {
			for _, t := range chunk {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				d, err := src.Trace(t)
				if err != nil {
					return err
				}
				if err := addTrace(c, t, d); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}
