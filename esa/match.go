package esa

// Match returns the lcp-interval of the longest prefix of q that occurs in
// the indexed text, descending interval by interval from the root.  The
// returned interval's L field is the exact number of matched bytes.
func (x *Index) Match(q []byte) Interval {
	return x.matchFrom(x.Root(), q, 0)
}

// MatchCached is Match with the first cacheLen steps replaced by a cache
// lookup when the query allows it.
func (x *Index) MatchCached(q []byte) Interval {
	if len(q) >= x.cacheLen {
		if code, ok := x.cacheCode(q); ok {
			if iv := x.cache[code]; !iv.IsEmpty() {
				return x.matchFrom(iv, q, int32(x.cacheLen))
			}
		}
	}
	return x.matchFrom(x.Root(), q, 0)
}

// matchFrom extends the match of q[:k] within iv.  The invariant on entry is
// that the first k bytes of q are a prefix of every suffix in iv and
// k <= iv.L.
func (x *Index) matchFrom(iv Interval, q []byte, k int32) Interval {
	qlen := int32(len(q))
	for {
		// Compare up to the interval's depth before branching again.
		e := iv.L
		if qlen < e {
			e = qlen
		}
		s := x.sa[iv.I]
		for k < e && q[k] == x.text[s+k] {
			k++
		}
		if k < e || k == qlen {
			iv.L = k
			return iv
		}
		child := x.stepInto(iv, q[k])
		if child.IsEmpty() {
			iv.L = k
			return iv
		}
		iv = child
	}
}
