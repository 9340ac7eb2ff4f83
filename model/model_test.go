package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// testMatrix returns a matrix with the given diagonal count per base,
// transition count (A<->G, C<->T) and transversion count (spread evenly).
func testMatrix(equal, transitions, transversions uint64) *MutationMatrix {
	m := &MutationMatrix{QueryLen: 4*equal + 2*transitions + 4*transversions}
	for i := 0; i < numBases; i++ {
		m.Counts[i][i] = equal
	}
	m.Counts[baseA][baseG] = transitions
	m.Counts[baseC][baseT] = transitions
	m.Counts[baseA][baseC] = transversions
	m.Counts[baseA][baseT] = transversions
	m.Counts[baseC][baseG] = transversions
	m.Counts[baseG][baseT] = transversions
	return m
}

func TestCounting(t *testing.T) {
	var m MutationMatrix
	m.CountEqual([]byte("ACGT!#;ACGT"))
	assert.EqualValues(t, 8, m.Total())
	assert.EqualValues(t, 0, m.SNPs())

	m.CountSubstitutions([]byte("ACGT!A"), []byte("AGGTAA"))
	// "!"/A is skipped; C/G counts once; the rest are equal.
	assert.EqualValues(t, 13, m.Total())
	assert.EqualValues(t, 1, m.SNPs())
	assert.EqualValues(t, 1, m.Counts[baseC][baseG])

	// Pairs are normalized: G observed against C lands in the same cell.
	m.CountSubstitutions([]byte("G"), []byte("C"))
	assert.EqualValues(t, 2, m.Counts[baseC][baseG])
}

func TestEstimateRaw(t *testing.T) {
	m := testMatrix(225, 50, 0) // 900 equal, 100 transitions
	assert.InDelta(t, 0.1, EstimateRaw(m), 1e-12)

	assert.True(t, math.IsNaN(EstimateRaw(&MutationMatrix{})))
	var tiny MutationMatrix
	tiny.CountEqual([]byte("ACG"))
	assert.True(t, math.IsNaN(EstimateRaw(&tiny)))
}

func TestEstimateJC(t *testing.T) {
	m := testMatrix(225, 50, 0)
	raw := EstimateRaw(m)
	want := -0.75 * math.Log(1-raw*4/3)
	assert.InDelta(t, want, EstimateJC(m), 1e-12)
	// The correction always stretches the raw distance.
	assert.True(t, EstimateJC(m) > raw)

	// Identical sequences: exactly zero, not negative zero.
	ident := testMatrix(100, 0, 0)
	d := EstimateJC(ident)
	assert.Equal(t, 0.0, d)
	assert.False(t, math.Signbit(d))

	// Beyond the model domain (raw >= 3/4) the distance is undefined.
	var far MutationMatrix
	far.Counts[baseA][baseC] = 100
	assert.True(t, math.IsNaN(EstimateJC(&far)))
}

func TestEstimateKimura(t *testing.T) {
	m := testMatrix(225, 30, 5)
	total := float64(m.Total())
	p := 60.0 / total
	q := 20.0 / total
	want := -0.25 * math.Log((1-2*q)*(1-2*p-q)*(1-2*p-q))
	assert.InDelta(t, want, EstimateKimura(m), 1e-12)

	assert.Equal(t, 0.0, EstimateKimura(testMatrix(50, 0, 0)))
	assert.True(t, math.IsNaN(EstimateKimura(&MutationMatrix{})))
}

func TestEstimateLogDet(t *testing.T) {
	// Identical sequences with balanced composition: distance zero.
	ident := testMatrix(100, 0, 0)
	assert.InDelta(t, 0, EstimateLogDet(ident), 1e-12)

	// A modest divergence gives a small positive distance.
	m := testMatrix(225, 30, 5)
	d := EstimateLogDet(m)
	assert.True(t, d > 0 && d < 1, "d=%v", d)

	// A singular joint matrix is out of domain.
	var sing MutationMatrix
	sing.Counts[baseA][baseA] = 100
	assert.True(t, math.IsNaN(EstimateLogDet(&sing)))
}

func TestEstimateDispatch(t *testing.T) {
	m := testMatrix(225, 50, 0)
	assert.Equal(t, EstimateRaw(m), Estimate(Raw, m))
	assert.Equal(t, EstimateJC(m), Estimate(JC, m))
	assert.Equal(t, EstimateKimura(m), Estimate(Kimura, m))
	assert.Equal(t, EstimateLogDet(m), Estimate(LogDet, m))
}

func TestParseType(t *testing.T) {
	for _, name := range []string{"Raw", "JC", "Kimura", "LogDet"} {
		typ, err := ParseType(name)
		require.NoError(t, err)
		assert.Equal(t, name, typ.String())
	}
	_, err := ParseType("K80")
	require.Error(t, err)
}

func TestResampleTotals(t *testing.T) {
	m := testMatrix(1000, 120, 30)
	total := m.Total()
	rng := rand.NewSource(1)
	for trial := 0; trial < 100; trial++ {
		b := Resample(m, rng)
		require.Equal(t, total, b.Total(), "trial %d", trial)
		require.Equal(t, m.QueryLen, b.QueryLen)
		for i := range b.Counts {
			for j := range b.Counts[i] {
				require.True(t, b.Counts[i][j] <= total)
				if m.Counts[i][j] == 0 {
					require.EqualValues(t, 0, b.Counts[i][j])
				}
			}
		}
	}
}

func TestResampleDistribution(t *testing.T) {
	// Cell means of the replicates track the source proportions.
	m := testMatrix(1000, 100, 0)
	rng := rand.NewSource(2)
	var sumAG float64
	const trials = 200
	for trial := 0; trial < trials; trial++ {
		b := Resample(m, rng)
		sumAG += float64(b.Counts[baseA][baseG])
	}
	mean := sumAG / trials
	assert.InDelta(t, 100, mean, 10)
}

func TestResampleEmpty(t *testing.T) {
	var m MutationMatrix
	b := Resample(&m, rand.NewSource(3))
	assert.EqualValues(t, 0, b.Total())
}
