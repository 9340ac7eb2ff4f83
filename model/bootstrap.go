package model

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Resample draws one multinomial bootstrap replicate of m: a sample of size
// Total(m) over the 16 cells with probabilities proportional to the original
// counts.  The replicate keeps the query length, and its total always equals
// the original total.
//
// The multinomial is drawn cell by cell as conditional binomials, so a
// single serialized rand.Rand is the only randomness needed.
func Resample(m *MutationMatrix, rng rand.Source) MutationMatrix {
	out := MutationMatrix{QueryLen: m.QueryLen}
	total := m.Total()
	if total == 0 {
		return out
	}
	remaining := total
	mass := float64(total)
	for i := 0; i < numBases && remaining > 0; i++ {
		for j := 0; j < numBases && remaining > 0; j++ {
			c := float64(m.Counts[i][j])
			if c <= 0 {
				continue
			}
			if c >= mass {
				// Last cell with probability mass: takes whatever is left.
				out.Counts[i][j] = remaining
				remaining = 0
				break
			}
			b := distuv.Binomial{N: float64(remaining), P: c / mass, Src: rng}
			k := uint64(b.Rand())
			if k > remaining {
				k = remaining
			}
			out.Counts[i][j] = k
			remaining -= k
			mass -= c
		}
	}
	return out
}
