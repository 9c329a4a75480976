package correlator

import (
	"bufio"
	"fmt"
	"io"
)

// DumpMatrix recomputes the correlation matrix and writes it to w as
// whitespace-separated decimal values (Go's %f, the equivalent of the
// original's C "%lf"), one row per hypothesis, newline terminated, with one
// extra trailing newline, in a plain Octave-readable format. Matching the
// original dump_matrix, it always refreshes the matrix first rather than
// requiring the caller to call UpdateMatrix separately.
func (c *Correlator) DumpMatrix(w io.Writer) error {
	if err := c.UpdateMatrix(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for k := 0; k < c.hypotheses; k++ {
		for i := 0; i < c.samples; i++ {
			if _, err := fmt.Fprintf(bw, "%f ", c.matrix[k][i]); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}

	return bw.Flush()
}
