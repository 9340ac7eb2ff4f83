package esa

// The prefix cache maps every ACGT string of length cacheLen to its
// lcp-interval, skipping the first cacheLen steps of every lookup.  Symbols
// are packed two bits each, in the same A=0 C=1 G=2 T=3 order the rest of
// the code uses, so a prefix is a direct index into a 4^cacheLen table.

// defaultCacheLen is the cached prefix length.  4^10 intervals cost 16 MiB
// per index.
const defaultCacheLen = 10

var baseCode [256]int8

func init() {
	for i := range baseCode {
		baseCode[i] = -1
	}
	baseCode['A'] = 0
	baseCode['C'] = 1
	baseCode['G'] = 2
	baseCode['T'] = 3
}

// initCache fills the prefix table by depth-first descent of the virtual
// suffix tree from the root.
func (x *Index) initCache() {
	x.cache = make([]Interval, 1<<uint(2*x.cacheLen))
	x.fillCache(x.Root(), 0, 0)
}

// fillCache resolves all cached prefixes below iv, whose first depth
// characters have code prefix.  Intervals deeper than the current position
// are fast-forwarded by reading the common bytes directly, and the letters
// that leave the common prefix get the sentinel; a non-ACGT byte on the way
// proves no ACGT prefix of full cache length exists below this point, so the
// whole range gets the sentinel.
func (x *Index) fillCache(iv Interval, code uint32, depth int) {
	L := int32(x.cacheLen)
	k := int32(depth)
	s := x.sa[iv.I]
	for k < L && k < iv.L {
		sym := baseCode[x.text[s+k]]
		if sym < 0 {
			x.fillRange(code, int(k), Empty)
			return
		}
		for other := int8(0); other < 4; other++ {
			if other != sym {
				x.fillRange(code<<2|uint32(other), int(k)+1, Empty)
			}
		}
		code = code<<2 | uint32(sym)
		k++
	}
	if k == L {
		x.cache[code] = iv
		return
	}
	// k == iv.L < L: branch on each ACGT letter.
	for sym := int32(0); sym < 4; sym++ {
		child := x.stepInto(iv, "ACGT"[sym])
		c := code<<2 | uint32(sym)
		if child.IsEmpty() {
			x.fillRange(c, int(k)+1, Empty)
			continue
		}
		x.fillCache(child, c, int(k)+1)
	}
}

// fillRange writes iv into every cache slot whose first depth symbols are
// code.
func (x *Index) fillRange(code uint32, depth int, iv Interval) {
	shift := uint(2 * (x.cacheLen - depth))
	start := code << shift
	end := (code + 1) << shift
	for c := start; c < end; c++ {
		x.cache[c] = iv
	}
}

// cacheCode packs the first cacheLen bytes of q, reporting failure on any
// non-ACGT byte.
func (x *Index) cacheCode(q []byte) (uint32, bool) {
	var code uint32
	for i := 0; i < x.cacheLen; i++ {
		sym := baseCode[q[i]]
		if sym < 0 {
			return 0, false
		}
		code = code<<2 | uint32(sym)
	}
	return code, true
}
