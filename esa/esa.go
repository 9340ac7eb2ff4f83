// Package esa implements an enhanced suffix array over a subject's RS
// string: the suffix array itself, the LCP array with the first-variant
// character packed into its high byte, the child array for virtual
// suffix-tree traversal, and a direct-indexed cache of the lcp-intervals of
// all short ACGT prefixes.
package esa

import (
	"github.com/pkg/errors"
)

// maxLCP is the largest representable LCP value; the top 8 bits of each
// entry hold the first-variant character.
const maxLCP = 1<<24 - 1

// ErrLCPOverflow is returned by New when a repeat in the subject produces an
// LCP value that does not fit in 24 bits.  The subject is unusable but the
// run can continue with its row undefined.
var ErrLCPOverflow = errors.New("LCP value exceeds 24 bits")

// Index is an enhanced suffix array.  All arrays are immutable after New.
type Index struct {
	// text is the indexed string plus one zero pad byte, so that
	// text[sa[i]+lcp] is always addressable.
	text []byte
	n    int32
	sa   []int32
	// lcp has n+1 entries.  lcp[0] and lcp[n] hold the sentinel -1; every
	// other entry packs the 24-bit LCP value in the low bits and the
	// first-variant character text[sa[i]+lcp] in the high byte.
	lcp []int32
	// cld has n+1 entries and merges the up, down and next-sibling links of
	// the child table: cld[x+1] is the "right" slot of position x (sibling
	// chain, or down-link for a last child) and cld[x] is the "left" slot of
	// x (up-link of the child interval ending at x-1).
	cld []int32

	cacheLen int
	cache    []Interval
}

// New builds the enhanced suffix array of text with the default prefix cache
// depth.
func New(text []byte) (*Index, error) {
	return newIndex(text, defaultCacheLen)
}

func newIndex(text []byte, cacheLen int) (*Index, error) {
	n := int32(len(text))
	if n == 0 {
		return nil, errors.New("esa: empty text")
	}
	padded := make([]byte, n+1)
	copy(padded, text)
	x := &Index{
		text: padded,
		n:    n,
		sa:   suffixSort(padded[:n]),
	}
	if err := x.initLCP(); err != nil {
		return nil, err
	}
	x.initCLD()
	x.cacheLen = cacheLen
	x.initCache()
	return x, nil
}

// Text returns the indexed string (without the pad byte).
func (x *Index) Text() []byte { return x.text[:x.n] }

// Len returns the number of indexed suffixes.
func (x *Index) Len() int32 { return x.n }

// SA returns the text position of the i'th suffix in lexicographic order.
func (x *Index) SA(i int32) int32 { return x.sa[i] }

// lcpValue unpacks the 24-bit LCP value at position k; the sentinels at 0
// and n are returned as -1.
func (x *Index) lcpValue(k int32) int32 {
	v := x.lcp[k]
	if v < 0 {
		return -1
	}
	return v & maxLCP
}

// fvc returns the first-variant character packed at position k, which
// equals text[sa[k]+lcpValue(k)].
func (x *Index) fvc(k int32) byte {
	return byte(uint32(x.lcp[k]) >> 24)
}

// initLCP derives the LCP array from the suffix array with the Φ/PLCP
// linear-time construction, then packs the first-variant characters.
func (x *Index) initLCP() error {
	n := x.n
	phi := make([]int32, n)
	phi[x.sa[0]] = -1
	for i := int32(1); i < n; i++ {
		phi[x.sa[i]] = x.sa[i-1]
	}
	// In text order the match length drops by at most one per step.
	plcp := make([]int32, n)
	var l int32
	for i := int32(0); i < n; i++ {
		j := phi[i]
		if j < 0 {
			l = 0
			continue
		}
		for i+l < n && j+l < n && x.text[i+l] == x.text[j+l] {
			l++
		}
		plcp[i] = l
		if l > 0 {
			l--
		}
	}
	lcp := make([]int32, n+1)
	lcp[0] = -1
	lcp[n] = -1
	for i := int32(1); i < n; i++ {
		v := plcp[x.sa[i]]
		if v > maxLCP {
			return errors.Wrapf(ErrLCPOverflow, "repeat of length %d at suffix %d", v, x.sa[i])
		}
		// The pad byte makes text[sa[i]+v] valid even when the suffix is an
		// exact prefix of its predecessor.
		lcp[i] = v | int32(x.text[x.sa[i]+v])<<24
	}
	x.lcp = lcp
	return nil
}

type cldPair struct {
	idx int32
	lcp int32
}

// initCLD builds the child array in one left-to-right pass over the LCP
// array with a monotonic stack.  When an equal-depth run of l-indices pops,
// the run is chained through the right slots and the run head lands either
// in the right slot of the interval's left boundary (a down-link) or in the
// left slot of the closing position (an up-link).
func (x *Index) initCLD() {
	n := x.n
	cld := make([]int32, n+1)
	stack := make([]cldPair, 1, 64)
	stack[0] = cldPair{idx: 0, lcp: -1}
	for k := int32(1); k <= n; k++ {
		lk := x.lcpValue(k)
		for lk < stack[len(stack)-1].lcp {
			last := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for stack[len(stack)-1].lcp == last.lcp {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cld[top.idx+1] = last.idx // sibling chain
				last = top
			}
			if lk < stack[len(stack)-1].lcp {
				cld[stack[len(stack)-1].idx+1] = last.idx // down-link
			} else {
				cld[k] = last.idx // up-link
			}
		}
		stack = append(stack, cldPair{idx: k, lcp: lk})
	}
	x.cld = cld
}

// Root returns the lcp-interval covering the whole suffix array.  Its depth
// is normally zero, but a text whose suffixes all share a first character
// collapses the root into its only child.
func (x *Index) Root() Interval {
	if x.n == 1 {
		return Interval{I: 0, J: 0, L: x.n - x.sa[0], M: -1}
	}
	m := x.cld[x.n]
	return Interval{I: 0, J: x.n - 1, L: x.lcpValue(m), M: m}
}
