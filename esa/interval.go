package esa

// Interval is an lcp-interval: [I, J] are inclusive suffix-array bounds, L
// is the depth of the common prefix and M caches the interval's first
// l-index.  For a singleton (I == J) inside the index the string is a whole
// suffix, L is its length and M is unused; a singleton returned by Match or
// MatchCached carries the number of matched bytes in L instead.
type Interval struct {
	I, J, L, M int32
}

// Empty is the sentinel interval returned when no suffix has the requested
// prefix.
var Empty = Interval{I: -1, J: -1, L: -1, M: -1}

// IsEmpty reports whether the interval is the sentinel.
func (iv Interval) IsEmpty() bool { return iv.I < 0 }

// stepInto returns the lcp-interval of wa given the interval of w and the
// character a, or Empty if no suffix continues with a.
//
// For a singleton the single suffix is compared directly.  Otherwise the
// child intervals of iv are walked left to right via the sibling chain,
// comparing each child's first-variant character against a.  Children are
// sorted, so a first-variant character above a ends the walk early.
func (x *Index) stepInto(iv Interval, a byte) Interval {
	if iv.I == iv.J {
		p := x.sa[iv.I] + iv.L
		if p < x.n && x.text[p] == a {
			iv.L++
			return iv
		}
		return Empty
	}
	i, j, l, m := iv.I, iv.J, iv.L, iv.M

	p := i     // left bound of the current child
	q := m - 1 // right bound of the current child
	c := x.text[x.sa[i]+l]
	for {
		if c == a {
			if p == q {
				// Singleton child: its depth is the full suffix length.
				return Interval{I: p, J: p, L: x.n - x.sa[p], M: -1}
			}
			var cm int32
			switch {
			case p == i:
				cm = x.cld[m] // up-link of the first child
			case q == j:
				cm = x.cld[p+1] // down-link of the last child
			default:
				cm = x.cld[q+1] // up-link of a middle child
			}
			return Interval{I: p, J: q, L: x.lcpValue(cm), M: cm}
		}
		if c > a || q == j {
			return Empty
		}
		// Advance to the next child: the split index q+1 is an l-index whose
		// packed first-variant character is the child's edge label.
		p = q + 1
		c = x.fvc(p)
		if next := x.cld[p+1]; next > p && next <= j && x.lcpValue(next) == l {
			q = next - 1
		} else {
			q = j // last child
		}
	}
}
