// Package phylo estimates pairwise evolutionary distances between sets of
// closely related genomic sequences.  Every sequence in turn serves as the
// subject of an enhanced suffix array; every other sequence is walked
// against it as a query, producing a mutation matrix per ordered pair, and a
// substitution model turns the matrices into the final distance matrix.
package phylo

import (
	"math"
	"runtime"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	perrors "github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/grailbio/phylo/anchor"
	"github.com/grailbio/phylo/esa"
	"github.com/grailbio/phylo/model"
	"github.com/grailbio/phylo/sequence"
)

// lowCoverageLimit is the covered fraction of a query below which a pair is
// flagged as unreliable.
const lowCoverageLimit = 0.2

// Opts configures a distance run.
type Opts struct {
	// Model selects the distance estimator.
	Model model.Type
	// PValue is the anchor significance threshold.
	PValue float64
	// Bootstrap is the number of bootstrap replicate matrices to draw.
	Bootstrap int
	// Seed seeds the bootstrap RNG.
	Seed uint64
	// LowMemory serializes the outer subject loop and parallelizes over
	// queries instead, holding one suffix array at a time.
	LowMemory bool
	// Parallelism caps the number of concurrent jobs; 0 means all CPUs.
	Parallelism int
	// Verbose disables the symmetrizing average of the two per-direction
	// mutation matrices of each pair.
	Verbose bool
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	Model:  model.JC,
	PValue: anchor.DefaultPValue,
}

// Result holds the distance matrix and any bootstrap replicates.
type Result struct {
	Names []string
	// Dist is the N x N distance matrix.  It is symmetric unless the run
	// was verbose, and NaN where no estimate was possible.
	Dist [][]float64
	// Bootstrap holds one additional matrix per replicate.
	Bootstrap [][][]float64
}

// Run computes the distance matrix for seqs.  Soft conditions (a rejected
// subject, a poorly covered pair) are logged and flagged in warn; an index
// construction failure other than rejection is returned as an error.
func Run(seqs []*sequence.Sequence, opts Opts, warn *sequence.Warnings) (*Result, error) {
	n := len(seqs)
	if n < 2 {
		return nil, perrors.Errorf("need at least 2 sequences, have %d", n)
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	grid := make([][]model.MutationMatrix, n)
	for i := range grid {
		grid[i] = make([]model.MutationMatrix, n)
	}
	failed := make([]bool, n)

	computeRow := func(i int) error {
		subj, err := sequence.NewSubject(seqs[i])
		if err != nil {
			return err
		}
		idx, err := esa.New(subj.RS)
		if err != nil {
			if perrors.Cause(err) == esa.ErrLCPOverflow {
				log.Error.Printf("sequence %s rejected: %v; its distances are undefined", seqs[i].Name, err)
				failed[i] = true
				return nil
			}
			return perrors.Wrapf(err, "building index for sequence %s", seqs[i].Name)
		}
		minLen := anchor.MinLength(opts.PValue, seqs[i].GC, int64(len(subj.RS)))
		for j := range seqs {
			if j != i {
				grid[i][j] = anchor.Distance(idx, seqs[j].Data, minLen)
			}
		}
		return nil
	}

	if opts.LowMemory {
		// One subject at a time; queries of each row run in parallel.  Peak
		// memory is a single suffix array regardless of parallelism.
		for i := range seqs {
			subj, err := sequence.NewSubject(seqs[i])
			if err != nil {
				return nil, err
			}
			idx, err := esa.New(subj.RS)
			if err != nil {
				if perrors.Cause(err) == esa.ErrLCPOverflow {
					log.Error.Printf("sequence %s rejected: %v; its distances are undefined", seqs[i].Name, err)
					failed[i] = true
					continue
				}
				return nil, perrors.Wrapf(err, "building index for sequence %s", seqs[i].Name)
			}
			minLen := anchor.MinLength(opts.PValue, seqs[i].GC, int64(len(subj.RS)))
			jobs := minInt(parallelism, n)
			err = traverse.Each(jobs, func(jobIdx int) error {
				for j := (jobIdx * n) / jobs; j < ((jobIdx + 1) * n) / jobs; j++ {
					if j != i {
						grid[i][j] = anchor.Distance(idx, seqs[j].Data, minLen)
					}
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	} else {
		jobs := minInt(parallelism, n)
		err := traverse.Each(jobs, func(jobIdx int) error {
			for i := (jobIdx * n) / jobs; i < ((jobIdx + 1) * n) / jobs; i++ {
				if err := computeRow(i); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	r := &Result{Names: make([]string, n), Dist: newMatrix(n)}
	for i, s := range seqs {
		r.Names[i] = s.Name
	}

	// The averaged per-pair matrices are kept for the bootstrap.
	pairs := make([][]model.MutationMatrix, n)
	for i := range pairs {
		pairs[i] = make([]model.MutationMatrix, n)
	}
	nan := func(i, j int) {
		r.Dist[i][j] = math.NaN()
		r.Dist[j][i] = math.NaN()
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if failed[i] || failed[j] {
				nan(i, j)
				continue
			}
			avg := grid[i][j]
			avg.Add(&grid[j][i])
			pairs[i][j] = avg
			if avg.Coverage() < lowCoverageLimit {
				log.Error.Printf("low coverage (%.3f) between %s and %s; their distance is unreliable",
					avg.Coverage(), seqs[i].Name, seqs[j].Name)
				warn.SetLowCoverage()
			}
			if opts.Verbose {
				r.Dist[i][j] = model.Estimate(opts.Model, &grid[i][j])
				r.Dist[j][i] = model.Estimate(opts.Model, &grid[j][i])
			} else {
				d := model.Estimate(opts.Model, &avg)
				r.Dist[i][j] = d
				r.Dist[j][i] = d
			}
		}
	}

	// The bootstrap runs sequentially after the main matrix: the RNG is a
	// single serialized stream.
	if opts.Bootstrap > 0 {
		rng := rand.NewSource(opts.Seed)
		for b := 0; b < opts.Bootstrap; b++ {
			dist := newMatrix(n)
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					if failed[i] || failed[j] {
						dist[i][j] = math.NaN()
						dist[j][i] = math.NaN()
						continue
					}
					mm := model.Resample(&pairs[i][j], rng)
					d := model.Estimate(opts.Model, &mm)
					dist[i][j] = d
					dist[j][i] = d
				}
			}
			r.Bootstrap = append(r.Bootstrap, dist)
		}
	}
	return r, nil
}

func newMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
