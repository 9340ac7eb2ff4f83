package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Type selects the evolutionary model used to turn mutation counts into a
// distance.
type Type int

const (
	// Raw is the uncorrected fraction of substituted sites.
	Raw Type = iota
	// JC is the Jukes-Cantor correction of Raw.
	JC
	// Kimura is the Kimura two-parameter model separating transitions from
	// transversions.
	Kimura
	// LogDet is the log-determinant (paralinear) distance.
	LogDet
)

var typeNames = map[string]Type{
	"Raw":    Raw,
	"JC":     JC,
	"Kimura": Kimura,
	"LogDet": LogDet,
}

// ParseType maps a model name from the command line to its Type.
func ParseType(s string) (Type, error) {
	t, ok := typeNames[s]
	if !ok {
		return 0, errors.Errorf("unknown model %q (want Raw, JC, Kimura or LogDet)", s)
	}
	return t, nil
}

// String returns the model name.
func (t Type) String() string {
	switch t {
	case Raw:
		return "Raw"
	case JC:
		return "JC"
	case Kimura:
		return "Kimura"
	case LogDet:
		return "LogDet"
	}
	return "unknown"
}

// minSites is the largest count total at which every estimate is still
// undefined; an estimate needs more than minSites counted sites.
const minSites = 3

// Estimate returns the distance of m under model t.  Estimates outside the
// model's domain are NaN.
func Estimate(t Type, m *MutationMatrix) float64 {
	switch t {
	case Raw:
		return EstimateRaw(m)
	case JC:
		return EstimateJC(m)
	case Kimura:
		return EstimateKimura(m)
	case LogDet:
		return EstimateLogDet(m)
	}
	return math.NaN()
}

// EstimateRaw returns the fraction of substituted sites among all counted
// sites, or NaN when fewer than four sites were counted.
func EstimateRaw(m *MutationMatrix) float64 {
	total := m.Total()
	if total <= minSites {
		return math.NaN()
	}
	return float64(m.SNPs()) / float64(total)
}

// EstimateJC applies the Jukes-Cantor correction -3/4 ln(1 - 4/3 d).
func EstimateJC(m *MutationMatrix) float64 {
	raw := EstimateRaw(m)
	arg := 1 - raw*4/3
	if !(arg > 0) { // also catches NaN raw
		return math.NaN()
	}
	d := -0.75 * math.Log(arg)
	if d == 0 {
		return 0 // fold -0 from log(1)
	}
	return d
}

// EstimateKimura computes the Kimura two-parameter distance
// -1/4 ln((1-2Q)(1-2P-Q)^2) with P the transition and Q the transversion
// fraction.
func EstimateKimura(m *MutationMatrix) float64 {
	total := m.Total()
	if total <= minSites {
		return math.NaN()
	}
	ft := float64(total)
	c := &m.Counts
	p := float64(c[baseA][baseG]+c[baseC][baseT]) / ft
	q := float64(c[baseA][baseC]+c[baseA][baseT]+c[baseC][baseG]+c[baseG][baseT]) / ft
	arg := (1 - 2*q) * (1 - 2*p - q) * (1 - 2*p - q)
	if !(arg > 0) {
		return math.NaN()
	}
	d := -0.25 * math.Log(arg)
	if d == 0 {
		return 0
	}
	return d
}

// EstimateLogDet computes the log-determinant (paralinear) distance
// -(ln|det F| - sum_i ln pi_i)/4, where F is the joint probability matrix
// and pi are the averaged marginals.  The marginal term normalizes the
// determinant so that identical sequences are at distance zero.
func EstimateLogDet(m *MutationMatrix) float64 {
	total := m.Total()
	if total <= minSites {
		return math.NaN()
	}
	ft := float64(total)
	f := mat.NewDense(numBases, numBases, nil)
	for i := 0; i < numBases; i++ {
		for j := 0; j < numBases; j++ {
			f.Set(i, j, float64(m.Counts[i][j])/ft)
		}
	}
	logDet, sign := mat.LogDet(f)
	if sign <= 0 || math.IsInf(logDet, 0) {
		return math.NaN()
	}
	var marginals float64
	for i := 0; i < numBases; i++ {
		var row, col float64
		for j := 0; j < numBases; j++ {
			row += f.At(i, j)
			col += f.At(j, i)
		}
		pi := (row + col) / 2
		if !(pi > 0) {
			return math.NaN()
		}
		marginals += math.Log(pi)
	}
	return -(logDet - marginals) / 4
}
