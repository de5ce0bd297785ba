// Command distance prints the great-circle distance between two location
// codes from a dataset file.
//
// Usage:
//
//	go run ./cmd/distance -data data/us_airports.csv LAX SFO
//	go run ./cmd/distance -data data/us_airports.csv.zst -unit km bwi hnl
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/crowflies/internal/dataset"
	"github.com/couchcryptid/crowflies/internal/domain"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("distance", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dataPath := fs.String("data", "data/us_airports.csv", "path to the location dataset (.csv or .csv.zst)")
	unitName := fs.String("unit", "nm", "distance unit: nm, km or mi")
	dupName := fs.String("duplicates", "reject", "duplicate code policy: reject, first or last")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: distance [flags] FROM TO")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	unit, err := domain.ParseUnit(*unitName)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	policy, err := dataset.ParseDuplicatePolicy(*dupName)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	dir, err := dataset.LoadFile(*dataPath, dataset.Options{Duplicates: policy})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	resolver := domain.NewResolver(dir, domain.NewEngine(unit))
	res, err := resolver.Resolve(domain.DistanceQuery{From: fs.Arg(0), To: fs.Arg(1)})
	if err != nil {
		if res.Failed() {
			fmt.Fprintln(stdout, res.Summary(unit))
		} else {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}

	fmt.Fprintln(stdout, res.Summary(unit))
	return 0
}
