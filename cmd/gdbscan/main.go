// Command gdbscan runs the parallel DBSCAN pipeline against a point-set
// file and prints the per-point labeling to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	gdbscan "github.com/hupe1980/gdbscan"
	"github.com/hupe1980/gdbscan/dataset"
	"github.com/hupe1980/gdbscan/graph"
	"github.com/hupe1980/gdbscan/solver"
)

func main() {
	input := flag.String("input", "", "path to the point-set input file (required)")
	epsilon := flag.Float64("epsilon", 0.5, "neighborhood radius")
	minPts := flag.Int("min-pts", 4, "minimum degree for core classification")
	workers := flag.Int("workers", 0, "goroutine pool size (0 = GOMAXPROCS)")
	encoding := flag.String("encoding", "dense", "staging adjacency encoding: dense or bits")
	simd := flag.Bool("simd", true, "enable the 8-lane batch distance kernel")
	mmap := flag.Bool("mmap", false, "memory-map the input file instead of reading it whole")
	format := flag.String("format", "text", "output format: text or json")
	verbose := flag.Bool("verbose", false, "enable debug logging to stderr")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "gdbscan: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	enc := graph.Dense
	switch *encoding {
	case "dense":
		enc = graph.Dense
	case "bits":
		enc = graph.Bits
	default:
		fmt.Fprintf(os.Stderr, "gdbscan: unknown encoding %q\n", *encoding)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := gdbscan.NewTextLogger(level)

	var ds *dataset.Dataset
	var err error
	if *mmap {
		ds, err = dataset.LoadMmap(*input)
	} else {
		f, ferr := os.Open(*input)
		if ferr != nil {
			fatal(ferr)
		}
		defer f.Close()
		ds, err = dataset.LoadText(f)
	}
	if err != nil {
		fatal(err)
	}

	opts := []solver.Option{
		solver.WithEpsilon(*epsilon),
		solver.WithMinPts(*minPts),
		solver.WithEncoding(enc),
		solver.WithSIMD(*simd),
		solver.WithLogger(logger),
	}
	if *workers > 0 {
		opts = append(opts, solver.WithWorkers(*workers))
	}
	cfg := solver.NewConfig(opts...)

	result, err := solver.New(cfg).Run(context.Background(), ds)
	if err != nil {
		fatal(err)
	}

	switch *format {
	case "json":
		if err := json.NewEncoder(os.Stdout).Encode(result.Records); err != nil {
			fatal(err)
		}
	default:
		for _, r := range result.Records {
			fmt.Printf("%d\t%d\t%s\n", r.Index, r.ClusterID, r.Membership)
		}
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "gdbscan: %v\n", err)
	os.Exit(1)
}
