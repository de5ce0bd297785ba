// Command packdata validates a CSV location dataset and writes a
// zstd-compressed copy that the service can load directly. Validation always
// rejects duplicate codes: the packed file is a byte copy of the input, so it
// must load under the service's default policy.
//
// Usage:
//
//	go run ./cmd/packdata -in data/us_airports.csv -out data/us_airports.csv.zst
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/crowflies/internal/dataset"
)

func main() {
	in := flag.String("in", "data/us_airports.csv", "CSV dataset to pack")
	out := flag.String("out", "", "output path (default: <in>.zst)")
	flag.Parse()

	if err := run(*in, *out, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run(in, out string, stdout io.Writer) error {
	if out == "" {
		out = in + ".zst"
	}
	if strings.HasSuffix(in, ".zst") {
		return fmt.Errorf("input %s is already compressed", in)
	}

	dir, err := dataset.LoadFile(in, dataset.Options{Duplicates: dataset.RejectDuplicates})
	if err != nil {
		return err
	}

	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return err
	}
	n, err := dataset.Compress(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(out)
		return fmt.Errorf("compress %s: %w", in, err)
	}

	info, err := os.Stat(out)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "packed %d locations: %s (%d bytes) -> %s (%d bytes)\n", dir.Len(), in, n, out, info.Size())
	return nil
}
