package phylo

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/grailbio/phylo/sequence"
)

// nameWidth is the PHYLIP name column width.
const nameWidth = 10

// Write prints the distance matrix, followed by one matrix per bootstrap
// replicate, in PHYLIP shape: the sequence count on its own line, then one
// line per sequence with its name and N distances.  With truncate set,
// names longer than ten characters are cut (and flagged in warn); otherwise
// long names are kept and only padded.
func (r *Result) Write(w io.Writer, truncate bool, warn *sequence.Warnings) error {
	bw := bufio.NewWriter(w)
	if err := writeMatrix(bw, r.Names, r.Dist, truncate, warn); err != nil {
		return err
	}
	for _, dist := range r.Bootstrap {
		if err := writeMatrix(bw, r.Names, dist, truncate, warn); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeMatrix(w *bufio.Writer, names []string, dist [][]float64, truncate bool, warn *sequence.Warnings) error {
	n := len(names)
	if _, err := fmt.Fprintf(w, "%d\n", n); err != nil {
		return err
	}
	format := "%1.4f"
	if useScientific(dist) {
		format = "%1.4e"
	}
	for i := 0; i < n; i++ {
		name := names[i]
		if truncate && len(name) > nameWidth {
			name = name[:nameWidth]
			if warn != nil {
				warn.SetNameTruncated()
			}
		}
		if _, err := fmt.Fprintf(w, "%-*s", nameWidth, name); err != nil {
			return err
		}
		for j := 0; j < n; j++ {
			d := dist[i][j]
			var err error
			if math.IsNaN(d) {
				_, err = w.WriteString(" nan")
			} else {
				_, err = fmt.Fprintf(w, " "+format, d)
			}
			if err != nil {
				return err
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// useScientific reports whether any defined distance is small enough that
// fixed-point output would round it to zero.
func useScientific(dist [][]float64) bool {
	for _, row := range dist {
		for _, d := range row {
			if d > 0 && d < 1e-3 {
				return true
			}
		}
	}
	return false
}
