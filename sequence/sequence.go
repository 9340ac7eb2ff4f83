// Package sequence prepares DNA sequences for suffix-array indexing.  A raw
// FASTA payload is normalized to uppercase ACGT (plus the '!' record
// separator used when several records are joined into one subject), and a
// subject additionally carries the concatenation revcomp(S) + '#' + S that
// the index is built over, so that matches on either strand are found in a
// single lookup.
package sequence

import (
	"github.com/pkg/errors"
)

// Separator joins multiple FASTA records into one forward strand.  It is
// distinct from the strand separator '#' and sorts below 'A', so neither ever
// matches an ACGT base; a separator matches only an identical byte.
const Separator = '!'

// strandSeparator splits the reverse complement from the forward strand
// inside RS.
const strandSeparator = '#'

// MaxLen is the longest forward strand a Subject accepts.  RS spans
// 2*len+1 bytes and index construction needs headroom below 2^31.
const MaxLen = (int(^uint32(0)>>1) - 1) / 4 // (INT_MAX-1)/2 bytes of RS, halved

var (
	normTable [256]byte // 0 means drop
	compTable [256]byte
	gcTable   [256]bool
)

func init() {
	for _, c := range []byte("ACGT") {
		normTable[c] = c
		normTable[c+'a'-'A'] = c
	}
	normTable[Separator] = Separator

	// The complement of the record separator is ';': still below 'A', still
	// unable to match anything on the forward strand.
	compTable['A'] = 'T'
	compTable['C'] = 'G'
	compTable['G'] = 'C'
	compTable['T'] = 'A'
	compTable[Separator] = ';'

	gcTable['G'] = true
	gcTable['C'] = true
}

// Sequence is a normalized forward strand.
type Sequence struct {
	Name string
	// Data contains only 'A' 'C' 'G' 'T' and '!'.
	Data []byte
	// GC is the fraction of G and C bases in Data.
	GC float64
}

// Len returns the number of bytes in the forward strand.
func (s *Sequence) Len() int { return len(s.Data) }

// New normalizes raw into a Sequence.  Lowercase acgt is uppercased, the
// record separator passes through, and every other byte is dropped; dropping
// at least one byte records a non-ACGT warning in w.  An empty result is an
// error.
func New(name string, raw []byte, w *Warnings) (*Sequence, error) {
	data := make([]byte, 0, len(raw))
	gc := 0
	dropped := false
	for _, b := range raw {
		c := normTable[b]
		if c == 0 {
			dropped = true
			continue
		}
		data = append(data, c)
		if gcTable[c] {
			gc++
		}
	}
	if dropped && w != nil {
		w.SetNonACGT()
	}
	if len(data) == 0 {
		return nil, errors.Errorf("sequence %q is empty after removing non-ACGT characters", name)
	}
	if len(data) < 1000 && w != nil {
		w.SetShortSequence()
	}
	return &Sequence{
		Name: name,
		Data: data,
		GC:   float64(gc) / float64(len(data)),
	}, nil
}

// ReverseComplement writes the reverse complement of src into dst, which
// must be at least len(src) bytes.
func ReverseComplement(dst, src []byte) {
	n := len(src)
	for i, b := range src {
		dst[n-1-i] = compTable[b]
	}
}

// Subject is a Sequence together with the indexable string
// RS = revcomp(S) + '#' + S.
type Subject struct {
	*Sequence
	// RS holds revcomp(Data), '#', Data.  len(RS) == 2*len(Data)+1.
	RS []byte
}

// NewSubject builds the concatenated RS string for s.
func NewSubject(s *Sequence) (*Subject, error) {
	n := s.Len()
	if n > MaxLen {
		return nil, errors.Errorf("sequence %q: length %d exceeds the index limit %d", s.Name, n, MaxLen)
	}
	rs := make([]byte, 2*n+1)
	ReverseComplement(rs[:n], s.Data)
	rs[n] = strandSeparator
	copy(rs[n+1:], s.Data)
	return &Subject{Sequence: s, RS: rs}, nil
}
