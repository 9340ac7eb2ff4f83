package sequence

import "sync/atomic"

// Warnings is a register of soft-error conditions observed during a run.
// Sequence parsing and the distance driver run concurrently across
// goroutines, so the individual flags are set atomically.  Any set flag
// turns the process exit status nonzero without stopping the computation.
type Warnings struct {
	nonACGT       uint32
	shortSequence uint32
	lowCoverage   uint32
	nameTruncated uint32
}

// SetNonACGT records that a non-ACGT character was dropped from an input.
func (w *Warnings) SetNonACGT() { atomic.StoreUint32(&w.nonACGT, 1) }

// SetShortSequence records an input shorter than 1000 bp.
func (w *Warnings) SetShortSequence() { atomic.StoreUint32(&w.shortSequence, 1) }

// SetLowCoverage records a pair whose mutation counts cover too little of
// the query.
func (w *Warnings) SetLowCoverage() { atomic.StoreUint32(&w.lowCoverage, 1) }

// SetNameTruncated records a sequence name cut to the output name width.
func (w *Warnings) SetNameTruncated() { atomic.StoreUint32(&w.nameTruncated, 1) }

// NonACGT reports whether a non-ACGT character was seen.
func (w *Warnings) NonACGT() bool { return atomic.LoadUint32(&w.nonACGT) != 0 }

// ShortSequence reports whether a short input was seen.
func (w *Warnings) ShortSequence() bool { return atomic.LoadUint32(&w.shortSequence) != 0 }

// LowCoverage reports whether a low-coverage pair was seen.
func (w *Warnings) LowCoverage() bool { return atomic.LoadUint32(&w.lowCoverage) != 0 }

// NameTruncated reports whether a name was truncated.
func (w *Warnings) NameTruncated() bool { return atomic.LoadUint32(&w.nameTruncated) != 0 }

// Any reports whether any soft-error condition was observed.
func (w *Warnings) Any() bool {
	return w.NonACGT() || w.ShortSequence() || w.LowCoverage() || w.NameTruncated()
}
