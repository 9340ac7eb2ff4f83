// Package model accumulates nucleotide substitution counts and turns them
// into evolutionary distances under the Raw, Jukes-Cantor, Kimura and LogDet
// models, with a multinomial bootstrap over the counts.
package model

// Nucleotide indices used throughout the matrix.
const (
	baseA = iota
	baseC
	baseG
	baseT
	numBases
)

var baseIndex [256]int8

func init() {
	for i := range baseIndex {
		baseIndex[i] = -1
	}
	baseIndex['A'] = baseA
	baseIndex['C'] = baseC
	baseIndex['G'] = baseG
	baseIndex['T'] = baseT
}

// MutationMatrix counts (from, to) nucleotide pairs observed in the aligned
// regions of one subject/query pair.  Pairs are normalized so that from <=
// to; the diagonal counts identical sites.  Bytes outside ACGT (separators)
// are never counted.
type MutationMatrix struct {
	Counts [numBases][numBases]uint64
	// QueryLen is the length of the query the counts were drawn from.
	QueryLen uint64
}

// CountEqual counts every ACGT byte of seg as an identical site.
func (m *MutationMatrix) CountEqual(seg []byte) {
	for _, b := range seg {
		if bi := baseIndex[b]; bi >= 0 {
			m.Counts[bi][bi]++
		}
	}
}

// CountSubstitutions compares s and q position by position.  Positions where
// either byte is not ACGT are skipped as unalignable.
func (m *MutationMatrix) CountSubstitutions(s, q []byte) {
	for i, b := range s {
		si := baseIndex[b]
		qi := baseIndex[q[i]]
		if si < 0 || qi < 0 {
			continue
		}
		if si > qi {
			si, qi = qi, si
		}
		m.Counts[si][qi]++
	}
}

// Add accumulates o into m cell by cell and sums the query lengths.
func (m *MutationMatrix) Add(o *MutationMatrix) {
	for i := range m.Counts {
		for j := range m.Counts[i] {
			m.Counts[i][j] += o.Counts[i][j]
		}
	}
	m.QueryLen += o.QueryLen
}

// Total returns the number of counted sites.
func (m *MutationMatrix) Total() uint64 {
	var t uint64
	for i := range m.Counts {
		for j := range m.Counts[i] {
			t += m.Counts[i][j]
		}
	}
	return t
}

// SNPs returns the number of counted substitutions.
func (m *MutationMatrix) SNPs() uint64 {
	var t uint64
	for i := range m.Counts {
		for j := range m.Counts[i] {
			if i != j {
				t += m.Counts[i][j]
			}
		}
	}
	return t
}

// Coverage returns the fraction of the query covered by counted sites.
func (m *MutationMatrix) Coverage() float64 {
	if m.QueryLen == 0 {
		return 0
	}
	return float64(m.Total()) / float64(m.QueryLen)
}
