package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/crowflies/internal/domain"
	"github.com/klauspost/compress/zstd"
)

// DuplicatePolicy decides what happens when a code appears on more than one
// row.
type DuplicatePolicy int

const (
	// RejectDuplicates fails the load with a DataFormatError.
	RejectDuplicates DuplicatePolicy = iota
	// FirstWins keeps the earliest row and ignores later ones.
	FirstWins
	// LastWins keeps the latest row.
	LastWins
)

func (p DuplicatePolicy) String() string {
	switch p {
	case RejectDuplicates:
		return "reject"
	case FirstWins:
		return "first"
	case LastWins:
		return "last"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// ParseDuplicatePolicy accepts "reject", "first" or "last".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reject", "":
		return RejectDuplicates, nil
	case "first", "first-wins":
		return FirstWins, nil
	case "last", "last-wins":
		return LastWins, nil
	default:
		return 0, fmt.Errorf("unknown duplicate policy %q", s)
	}
}

// Options tune Load.
type Options struct {
	Duplicates DuplicatePolicy
}

// Load reads every row from r and builds a Directory. It stops at the first
// malformed row.
func Load(r io.Reader, opts Options) (*domain.Directory, error) {
	dec := NewDecoder(r)
	records := make(map[domain.Code]domain.LocationRecord)
	lines := make(map[domain.Code]int)

	for {
		row, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		code := row.Record.Code
		if first, seen := lines[code]; seen {
			switch opts.Duplicates {
			case FirstWins:
				continue
			case LastWins:
			default:
				return nil, &domain.DataFormatError{
					Line:  row.Line,
					Field: fieldNames[fieldCode],
					Err:   fmt.Errorf("%w %q, first seen on line %d", domain.ErrDuplicateCode, code, first),
				}
			}
		}
		records[code] = row.Record
		lines[code] = row.Line
	}

	return domain.NewDirectory(records), nil
}

// LoadFile opens path and loads it. Paths ending in ".zst" are decompressed
// with zstd.
func LoadFile(path string, opts Options) (*domain.Directory, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	dir, err := Load(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return dir, nil
}

// Open returns the decompressed contents of a dataset file.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}

	zr, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open zstd dataset %s: %w", path, err)
	}
	return &zstdFile{Decoder: zr, f: f}, nil
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}
