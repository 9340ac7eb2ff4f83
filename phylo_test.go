package phylo

import (
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/phylo/model"
	"github.com/grailbio/phylo/sequence"
)

func randomSeq(rng *rand.Rand, n int) []byte {
	s := make([]byte, n)
	for i := range s {
		s[i] = "ACGT"[rng.Intn(4)]
	}
	return s
}

func mutate(rng *rand.Rand, s []byte, count int) []byte {
	out := append([]byte{}, s...)
	for i := 0; i < count; i++ {
		pos := rng.Intn(len(out))
		old := out[pos]
		for out[pos] == old {
			out[pos] = "ACGT"[rng.Intn(4)]
		}
	}
	return out
}

func makeSeqs(t *testing.T, raws ...[]byte) []*sequence.Sequence {
	var seqs []*sequence.Sequence
	for i, raw := range raws {
		s, err := sequence.New(string(rune('a'+i)), raw, nil)
		require.NoError(t, err)
		seqs = append(seqs, s)
	}
	return seqs
}

func TestRunIdentical(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	raw := randomSeq(rng, 10000)
	seqs := makeSeqs(t, raw, append([]byte{}, raw...))

	r, err := Run(seqs, DefaultOpts, &sequence.Warnings{})
	require.NoError(t, err)
	expect.EQ(t, r.Dist, [][]float64{{0, 0}, {0, 0}})
}

func TestRunThreeSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	raw := randomSeq(rng, 10000)
	diverged := mutate(rng, raw, 1000)
	seqs := makeSeqs(t, raw, append([]byte{}, raw...), diverged)

	r, err := Run(seqs, DefaultOpts, &sequence.Warnings{})
	require.NoError(t, err)
	expect.EQ(t, r.Dist[0][1], 0.0)
	expect.EQ(t, r.Dist[1][0], 0.0)
	// Sequences 1 and 2 are identical, so their distances to 3 agree
	// exactly, and the matrix is symmetric.
	expect.EQ(t, r.Dist[0][2], r.Dist[1][2])
	expect.EQ(t, r.Dist[0][2], r.Dist[2][0])
	expect.True(t, r.Dist[0][2] > 0.05 && r.Dist[0][2] < 0.2)
}

func TestRunModesAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	raw := randomSeq(rng, 5000)
	seqs := makeSeqs(t, raw, mutate(rng, raw, 50), mutate(rng, raw, 250))

	warn := &sequence.Warnings{}
	fast, err := Run(seqs, DefaultOpts, warn)
	require.NoError(t, err)
	lowOpts := DefaultOpts
	lowOpts.LowMemory = true
	lowOpts.Parallelism = 2
	low, err := Run(seqs, lowOpts, warn)
	require.NoError(t, err)

	var fastOut, lowOut bytes.Buffer
	require.NoError(t, fast.Write(&fastOut, false, warn))
	require.NoError(t, low.Write(&lowOut, false, warn))
	expect.EQ(t, fastOut.String(), lowOut.String())
}

func TestRunModels(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	raw := randomSeq(rng, 5000)
	seqs := makeSeqs(t, raw, mutate(rng, raw, 50))

	var prev float64
	for _, typ := range []model.Type{model.Raw, model.JC} {
		opts := DefaultOpts
		opts.Model = typ
		r, err := Run(seqs, opts, &sequence.Warnings{})
		require.NoError(t, err)
		d := r.Dist[0][1]
		expect.True(t, d > 0.005 && d < 0.02)
		expect.True(t, d >= prev) // JC stretches Raw
		prev = d
	}
}

func TestRunBootstrap(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	raw := randomSeq(rng, 5000)
	seqs := makeSeqs(t, raw, mutate(rng, raw, 100))

	opts := DefaultOpts
	opts.Bootstrap = 3
	opts.Seed = 42
	r, err := Run(seqs, opts, &sequence.Warnings{})
	require.NoError(t, err)
	require.Len(t, r.Bootstrap, 3)
	d := r.Dist[0][1]
	for _, dist := range r.Bootstrap {
		expect.EQ(t, dist[0][0], 0.0)
		expect.EQ(t, dist[0][1], dist[1][0])
		// Replicates scatter around the point estimate.
		expect.True(t, math.Abs(dist[0][1]-d) < d)
	}

	// The bootstrap stream is deterministic for a fixed seed.
	again, err := Run(seqs, opts, &sequence.Warnings{})
	require.NoError(t, err)
	expect.EQ(t, r.Bootstrap, again.Bootstrap)
}

func TestRunTooFewSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	seqs := makeSeqs(t, randomSeq(rng, 2000))
	_, err := Run(seqs, DefaultOpts, &sequence.Warnings{})
	require.Error(t, err)
}

func TestRunLowCoverageWarns(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seqs := makeSeqs(t, randomSeq(rng, 5000), randomSeq(rng, 5000))
	warn := &sequence.Warnings{}
	r, err := Run(seqs, DefaultOpts, warn)
	require.NoError(t, err)
	expect.True(t, warn.LowCoverage())
	// Unrelated sequences end up undefined or far away, never close.
	d := r.Dist[0][1]
	expect.True(t, math.IsNaN(d) || d > 0.1)
}

func TestWriteMatrix(t *testing.T) {
	r := &Result{
		Names: []string{"short", "averylongname"},
		Dist:  [][]float64{{0, 0.1234}, {0.1234, 0}},
	}
	var buf bytes.Buffer
	warn := &sequence.Warnings{}
	require.NoError(t, r.Write(&buf, false, warn))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	expect.EQ(t, lines[0], "2")
	expect.EQ(t, lines[1], "short      0.0000 0.1234")
	expect.EQ(t, lines[2], "averylongname 0.1234 0.0000")
	expect.False(t, warn.NameTruncated())

	buf.Reset()
	require.NoError(t, r.Write(&buf, true, warn))
	expect.True(t, strings.Contains(buf.String(), "averylongn "))
	expect.True(t, warn.NameTruncated())
}

func TestWriteMatrixScientific(t *testing.T) {
	r := &Result{
		Names: []string{"a", "b"},
		Dist:  [][]float64{{0, 2e-4}, {2e-4, 0}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, false, nil))
	expect.True(t, strings.Contains(buf.String(), "2.0000e-04"))
}

func TestWriteMatrixNaN(t *testing.T) {
	nan := math.NaN()
	r := &Result{
		Names: []string{"a", "b"},
		Dist:  [][]float64{{0, nan}, {nan, 0}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, false, nil))
	expect.True(t, strings.Contains(buf.String(), " nan"))
}
