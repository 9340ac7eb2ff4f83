package esa

// Suffix sorting via induced sorting (SA-IS).  The text is mapped to int32
// symbols with a unique smallest sentinel appended; the recursion operates on
// renamed LMS substrings.  This is the external "suffix sort" primitive of
// the index: it returns the plain lexicographic suffix permutation and knows
// nothing about LCPs or intervals.

// suffixSort returns the suffix array of text.
func suffixSort(text []byte) []int32 {
	n := len(text)
	// Shift every byte up by one so 0 is free to act as the sentinel.
	s := make([]int32, n+1)
	for i := 0; i < n; i++ {
		s[i] = int32(text[i]) + 1
	}
	s[n] = 0
	sa := saIS(s, 257)
	// Drop the sentinel suffix, which always sorts first.
	return sa[1:]
}

// saIS computes the suffix array of s over the alphabet [0, k).  s must end
// with a unique smallest symbol.
func saIS(s []int32, k int32) []int32 {
	n := len(s)
	sa := make([]int32, n)
	if n == 1 {
		sa[0] = 0
		return sa
	}

	// Classify suffixes: t[i] is true for S-type.
	t := make([]bool, n)
	t[n-1] = true
	for i := n - 2; i >= 0; i-- {
		if s[i] < s[i+1] {
			t[i] = true
		} else if s[i] == s[i+1] {
			t[i] = t[i+1]
		}
	}
	var lms []int32
	for i := 1; i < n; i++ {
		if t[i] && !t[i-1] {
			lms = append(lms, int32(i))
		}
	}

	bs := bucketSizes(s, k)
	induceSort(s, sa, t, bs, lms)

	// Name the LMS substrings in sorted order.
	names := make([]int32, n)
	for i := range names {
		names[i] = -1
	}
	var name int32
	prev := int32(-1)
	for _, pos := range sa {
		if pos > 0 && t[pos] && !t[pos-1] {
			if prev >= 0 && !lmsEqual(s, t, prev, pos) {
				name++
			}
			names[pos] = name
			prev = pos
		}
	}
	numNames := name + 1

	reduced := make([]int32, len(lms))
	for i, pos := range lms {
		reduced[i] = names[pos]
	}

	var reducedSA []int32
	if int(numNames) < len(reduced) {
		reducedSA = saIS(reduced, numNames)
	} else {
		// All names unique: the reduced string is its own inverse permutation.
		reducedSA = make([]int32, len(reduced))
		for i, nm := range reduced {
			reducedSA[nm] = int32(i)
		}
	}

	ordered := make([]int32, len(reducedSA))
	for i, idx := range reducedSA {
		ordered[i] = lms[idx]
	}
	induceSort(s, sa, t, bs, ordered)
	return sa
}

// induceSort places the given LMS suffixes at their bucket tails and induces
// the order of all remaining suffixes in two scans.
func induceSort(s []int32, sa []int32, t []bool, bs []int32, lms []int32) {
	for i := range sa {
		sa[i] = -1
	}
	tails := bucketTails(bs)
	for i := len(lms) - 1; i >= 0; i-- {
		pos := lms[i]
		c := s[pos]
		sa[tails[c]] = pos
		tails[c]--
	}
	heads := bucketHeads(bs)
	for i := 0; i < len(sa); i++ {
		pos := sa[i]
		if pos > 0 && !t[pos-1] {
			c := s[pos-1]
			sa[heads[c]] = pos - 1
			heads[c]++
		}
	}
	tails = bucketTails(bs)
	for i := len(sa) - 1; i >= 0; i-- {
		pos := sa[i]
		if pos > 0 && t[pos-1] {
			c := s[pos-1]
			sa[tails[c]] = pos - 1
			tails[c]--
		}
	}
}

func bucketSizes(s []int32, k int32) []int32 {
	bs := make([]int32, k)
	for _, c := range s {
		bs[c]++
	}
	return bs
}

func bucketHeads(bs []int32) []int32 {
	heads := make([]int32, len(bs))
	var sum int32
	for i, v := range bs {
		heads[i] = sum
		sum += v
	}
	return heads
}

func bucketTails(bs []int32) []int32 {
	tails := make([]int32, len(bs))
	var sum int32
	for i, v := range bs {
		sum += v
		tails[i] = sum - 1
	}
	return tails
}

// lmsEqual reports whether the LMS substrings starting at i and j are
// identical, comparing both symbols and type flags up to and including the
// next LMS position.
func lmsEqual(s []int32, t []bool, i, j int32) bool {
	n := int32(len(s))
	for {
		if s[i] != s[j] || t[i] != t[j] {
			return false
		}
		i++
		j++
		if i >= n || j >= n {
			return false
		}
		iLMS := t[i] && !t[i-1]
		jLMS := t[j] && !t[j-1]
		if iLMS && jLMS {
			return s[i] == s[j]
		}
		if iLMS != jLMS {
			return false
		}
	}
}
