// Package fasta contains code for parsing FASTA files.  Briefly, FASTA
// files consist of a number of named sequences that may be interrupted by
// newlines.  For example:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Note: Sequence names are defined to be the stretch of characters
// excluding spaces immediately after '>'.  Any text appearing after a space
// is ignored.  For example, '>chr1 A viral sequence' becomes 'chr1'.
package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	mib            = 1024 * 1024
	bufferInitSize = 300 * mib
)

// Record is one named sequence, in file order.  Seq is the raw payload with
// newlines removed; no alphabet cleaning is applied here.
type Record struct {
	Name string
	Seq  []byte
}

// Read parses all records from r.  A record with an empty payload, or data
// before the first '>', is an error.
func Read(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferInitSize)
	var (
		recs []Record
		cur  *Record
	)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if cur != nil && len(cur.Seq) == 0 {
				return nil, errors.Errorf("fasta: sequence %q is empty", cur.Name)
			}
			name := strings.Split(string(line[1:]), " ")[0]
			if name == "" {
				return nil, errors.New("fasta: record with empty name")
			}
			recs = append(recs, Record{Name: name})
			cur = &recs[len(recs)-1]
		} else {
			if cur == nil {
				return nil, errors.New("malformed FASTA file")
			}
			cur.Seq = append(cur.Seq, line...)
		}
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	if cur == nil {
		return nil, errors.New("fasta: no records found")
	}
	if len(cur.Seq) == 0 {
		return nil, errors.Errorf("fasta: sequence %q is empty", cur.Name)
	}
	return recs, nil
}

// Join concatenates the payloads of recs with sep between them, under the
// given name.  It is used when all records of one file form a single
// subject.
func Join(name string, recs []Record, sep byte) Record {
	var buf bytes.Buffer
	for i, rec := range recs {
		if i > 0 {
			buf.WriteByte(sep)
		}
		buf.Write(rec.Seq)
	}
	return Record{Name: name, Seq: buf.Bytes()}
}
