package main

/*
phylo-dist estimates pairwise evolutionary distances between closely related
genomic sequences and prints a PHYLIP distance matrix.  Each input FASTA
record (or each file, with -join) becomes one sequence; distances are
computed from exact-match anchors without a full alignment.
*/

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/grailbio/phylo"
	"github.com/grailbio/phylo/encoding/fasta"
	"github.com/grailbio/phylo/model"
	"github.com/grailbio/phylo/sequence"
)

const version = "phylo-dist 1.0"

var (
	bootstrapN      = flag.Int("bootstrap", 0, "Number of bootstrap replicate matrices to print after the main matrix")
	fileOfFilenames = flag.String("file-of-filenames", "", "File with one input FASTA path per line, used in addition to positional FILES")
	join            = flag.Bool("join", false, "Concatenate all records of each file into a single sequence named after the file")
	lowMemory       = flag.Bool("low-memory", false, "Hold only one suffix array at a time; slower, but memory does not grow with -threads")
	modelName       = flag.String("model", "JC", "Distance model; one of Raw, JC, Kimura, LogDet")
	pValue          = flag.Float64("p", phylo.DefaultOpts.PValue, "Anchor significance threshold (0 < p < 1)")
	seed            = flag.Uint64("seed", 0, "Bootstrap RNG seed")
	threads         = flag.Int("threads", 0, "Maximum number of concurrent jobs; 0 = all CPUs")
	truncateNames   = flag.Bool("truncate-names", false, "Truncate sequence names to 10 characters in the output")
	verbose         = flag.Bool("verbose", false, "Print per-direction estimates instead of the symmetrized matrix")
	printVersion    = flag.Bool("version", false, "Print the version and exit")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] FILES...\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Other options:\n")
	flag.PrintDefaults()
}

// inputPaths merges the positional arguments with the file-of-filenames.
func inputPaths() []string {
	paths := append([]string{}, flag.Args()...)
	if *fileOfFilenames == "" {
		return paths
	}
	ctx := vcontext.Background()
	data, err := file.ReadFile(ctx, *fileOfFilenames)
	if err != nil {
		log.Fatalf("read %s: %v", *fileOfFilenames, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}

// readSequences parses every path into prepared sequences.
func readSequences(paths []string, warn *sequence.Warnings) []*sequence.Sequence {
	ctx := vcontext.Background()
	var seqs []*sequence.Sequence
	for _, path := range paths {
		in, err := file.Open(ctx, path)
		if err != nil {
			log.Fatalf("open %s: %v", path, err)
		}
		var r io.Reader = in.Reader(ctx)
		if u := compress.NewReaderPath(r, in.Name()); u != nil {
			r = u
		}
		recs, readErr := fasta.Read(r)
		once := errors.Once{}
		once.Set(readErr)
		once.Set(in.Close(ctx))
		if err := once.Err(); err != nil {
			log.Fatalf("read %s: %v", path, err)
		}
		if *join {
			recs = []fasta.Record{fasta.Join(path, recs, sequence.Separator)}
		}
		for _, rec := range recs {
			s, err := sequence.New(rec.Name, rec.Seq, warn)
			if err != nil {
				log.Fatalf("%s: %v", path, err)
			}
			seqs = append(seqs, s)
		}
	}
	return seqs
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if *printVersion {
		fmt.Println(version)
		return
	}
	if *pValue <= 0 || *pValue >= 1 {
		log.Fatalf("-p must be in (0, 1), have %g", *pValue)
	}
	modelType, err := model.ParseType(*modelName)
	if err != nil {
		log.Fatal(err)
	}

	paths := inputPaths()
	if len(paths) == 0 {
		log.Fatalf("no input files")
	}
	warn := &sequence.Warnings{}
	seqs := readSequences(paths, warn)
	if len(seqs) < 2 {
		log.Fatalf("need at least 2 sequences, have %d", len(seqs))
	}
	if warn.NonACGT() {
		log.Error.Printf("non-ACGT characters were dropped from the input")
	}
	if warn.ShortSequence() {
		log.Error.Printf("the input contains sequences shorter than 1000 bp; distances may be unreliable")
	}

	opts := phylo.Opts{
		Model:       modelType,
		PValue:      *pValue,
		Bootstrap:   *bootstrapN,
		Seed:        *seed,
		LowMemory:   *lowMemory,
		Parallelism: *threads,
		Verbose:     *verbose,
	}
	result, err := phylo.Run(seqs, opts, warn)
	if err != nil {
		log.Fatal(err)
	}
	if err := result.Write(os.Stdout, *truncateNames, warn); err != nil {
		log.Fatal(err)
	}
	if warn.Any() {
		os.Exit(2)
	}
}
