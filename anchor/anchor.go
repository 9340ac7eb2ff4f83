// Package anchor walks a query sequence against a subject's enhanced suffix
// array, recognizes anchors (long exact matches unique in the subject),
// pairs collinear anchors, and counts the substitutions between them into a
// mutation matrix.
package anchor

import (
	"github.com/grailbio/phylo/esa"
	"github.com/grailbio/phylo/model"
)

// match is one confirmed exact match: subject position (in RS coordinates),
// query position, and length.
type match struct {
	posS, posQ, length int32
}

// Distance walks query against idx and returns the mutation matrix of the
// classified sites.  minLen is the anchor length threshold for this subject.
//
// Two consecutive anchors whose subject gap equals their query gap form an
// anchor pair: the left anchor's sites count as identical and the gap is
// compared base by base.  An anchor that pairs with nothing still counts
// when it closed an earlier pair, or when it is long enough (twice the
// threshold) to be significant on its own.
func Distance(idx *esa.Index, query []byte, minLen int32) model.MutationMatrix {
	var mm model.MutationMatrix
	mm.QueryLen = uint64(len(query))
	text := idx.Text()
	n := idx.Len()
	qlen := int32(len(query))

	var (
		last        match
		haveLast    bool
		rightAnchor bool
		posQ        int32
	)
	for posQ < qlen {
		var this match
		found := false

		// Lucky extension: if the previous anchor is close, the homologous
		// position in the subject is already known and a direct comparison
		// is cheaper than a lookup.
		if haveLast {
			tryS := last.posS + (posQ - last.posQ)
			if tryS < n && posQ-last.posQ-last.length <= minLen {
				if l := commonPrefix(query[posQ:], text[tryS:]); l >= minLen {
					this = match{posS: tryS, posQ: posQ, length: l}
					found = true
				}
			}
		}
		if !found {
			iv := idx.MatchCached(query[posQ:])
			if iv.I == iv.J && iv.L >= minLen {
				this = match{posS: idx.SA(iv.I), posQ: posQ, length: iv.L}
				found = true
			} else {
				// No anchor here; skip past the mismatching character.
				posQ += iv.L + 1
				continue
			}
		}

		if haveLast {
			endS := last.posS + last.length
			endQ := last.posQ + last.length
			if this.posS > endS && this.posQ-endQ == this.posS-endS {
				// Anchor pair: the gap is ungapped homologous sequence.
				mm.CountEqual(text[last.posS:endS])
				gap := this.posQ - endQ
				mm.CountSubstitutions(text[endS:endS+gap], query[endQ:endQ+gap])
				rightAnchor = true
			} else {
				if rightAnchor || last.length >= 2*minLen {
					mm.CountEqual(text[last.posS:endS])
				}
				rightAnchor = false
			}
		}
		last = this
		haveLast = true
		posQ = this.posQ + this.length + 1
	}

	if !haveLast {
		return mm
	}
	if last.length >= qlen {
		// The whole query matched in one piece: the sequences are identical.
		mm.CountEqual(text[last.posS : last.posS+qlen])
		return mm
	}
	if rightAnchor || last.length >= 2*minLen {
		mm.CountEqual(text[last.posS : last.posS+last.length])
	}
	return mm
}

// commonPrefix returns the length of the longest common prefix of a and b.
func commonPrefix(a, b []byte) int32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return int32(i)
		}
	}
	return int32(n)
}
