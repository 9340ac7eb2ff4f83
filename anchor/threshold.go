package anchor

import "math"

// DefaultPValue is the significance level below which an exact match is
// accepted as an anchor.
const DefaultPValue = 0.025

// MinLength returns the minimum anchor length for a subject of the given
// indexed length and GC content: the smallest x for which the probability
// that the shortest unique substring at a position is at most x crosses
// 1 - pValue.
//
// The CDF follows the shustring length distribution: a candidate of length
// x with k G/C bases occurs nowhere else with probability
// (1 - p^k (1/2-p)^(x-k))^l, summed over the binomial choices of k, with
// p = gc/2.
func MinLength(pValue, gc float64, length int64) int32 {
	p := gc / 2
	q := 0.5 - p
	l := float64(length)
	for x := 1; ; x++ {
		// C(x,k) built incrementally; 2^x distributes over the two strands.
		choose := 1.0
		pow2 := math.Pow(2, float64(x))
		cdf := 0.0
		for k := 0; k <= x; k++ {
			pk := math.Pow(p, float64(k)) * math.Pow(q, float64(x-k))
			cdf += choose * pow2 * pk * math.Pow(1-pk, l)
			choose *= float64(x-k) / float64(k+1)
		}
		if cdf > 1 {
			cdf = 1
		}
		if cdf >= 1-pValue {
			return int32(x)
		}
	}
}
