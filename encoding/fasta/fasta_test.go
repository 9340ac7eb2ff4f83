package fasta_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/phylo/encoding/fasta"
)

func TestRead(t *testing.T) {
	in := ">seq1\nACGTA\nCGTAC\nGT\n>seq2 A viral sequence\nACGT\nACGT\n"
	recs, err := fasta.Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "seq1", recs[0].Name)
	assert.Equal(t, "ACGTACGTACGT", string(recs[0].Seq))
	assert.Equal(t, "seq2", recs[1].Name)
	assert.Equal(t, "ACGTACGT", string(recs[1].Seq))
}

func TestReadErrors(t *testing.T) {
	for _, in := range []string{
		"",                 // no records
		"ACGT\n",           // data before the first header
		">seq1\n",          // empty payload
		">seq1\n>seq2\nAC", // empty payload mid-file
		"> no name\nACGT",  // empty name
	} {
		_, err := fasta.Read(strings.NewReader(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestJoin(t *testing.T) {
	recs := []fasta.Record{
		{Name: "a", Seq: []byte("ACGT")},
		{Name: "b", Seq: []byte("GGCC")},
		{Name: "c", Seq: []byte("T")},
	}
	joined := fasta.Join("all.fa", recs, '!')
	assert.Equal(t, "all.fa", joined.Name)
	assert.Equal(t, "ACGT!GGCC!T", string(joined.Seq))

	single := fasta.Join("one.fa", recs[:1], '!')
	assert.Equal(t, "ACGT", string(single.Seq))
}
