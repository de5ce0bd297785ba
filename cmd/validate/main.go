// Command validate performs integrity checks on a location dataset before it
// is shipped: every row decodes, codes are unique and well formed, and the
// distance engine agrees with known reference distances.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -data data/us_airports.csv \
//	  -ref LAX-SFO=293.3,BWI-HNL=4212.2
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/crowflies/internal/dataset"
	"github.com/couchcryptid/crowflies/internal/domain"
)

// referenceTolerance is the allowed difference, in nautical miles, between a
// computed distance and a reference value.
const referenceTolerance = 0.5

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// reference is a known distance between two codes.
type reference struct {
	from, to domain.Code
	nm       float64
}

func main() {
	dataPath := flag.String("data", "data/us_airports.csv", "location dataset to validate (.csv or .csv.zst)")
	refs := flag.String("ref", "", "comma-separated reference distances in nautical miles, e.g. LAX-SFO=293.3")
	flag.Parse()

	if code := run(*dataPath, *refs, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(dataPath, refSpec string, out io.Writer) int {
	refs, err := parseReferences(refSpec)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	fmt.Fprintln(out, "=== Location Dataset Validation ===")
	fmt.Fprintln(out)

	rows, formatPhase, err := decodeAll(dataPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		formatPhase,
		validateUniqueness(rows),
		validateCodeFormat(rows),
		validateDistances(rows, refs),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Rows: %d decoded, %d references checked\n", len(rows), len(refs))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func parseReferences(spec string) ([]reference, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	var refs []reference
	for _, item := range strings.Split(spec, ",") {
		pair, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			return nil, fmt.Errorf("reference %q: want FROM-TO=NM", item)
		}
		from, to, ok := strings.Cut(pair, "-")
		if !ok {
			return nil, fmt.Errorf("reference %q: want FROM-TO=NM", item)
		}
		nm, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("reference %q: %w", item, err)
		}
		refs = append(refs, reference{from: domain.NormalizeCode(from), to: domain.NormalizeCode(to), nm: nm})
	}
	return refs, nil
}

// ── Phase 1: Row Format ──
// Every row must decode; all problems are reported, not just the first.

func decodeAll(path string) ([]dataset.Row, *phase, error) {
	p := &phase{name: "Phase 1: Row Format (fields, coordinates)"}

	rc, err := dataset.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	var rows []dataset.Row
	dec := dataset.NewDecoder(rc)
	for {
		row, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		var fe *domain.DataFormatError
		if errors.As(err, &fe) {
			p.errorf("%v", fe)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 && p.passed() {
		p.errorf("dataset has no rows")
	}
	return rows, p, nil
}

// ── Phase 2: Code Uniqueness ──

func validateUniqueness(rows []dataset.Row) *phase {
	p := &phase{name: "Phase 2: Code Uniqueness"}
	seen := make(map[domain.Code]int, len(rows))
	for _, row := range rows {
		if first, ok := seen[row.Record.Code]; ok {
			p.errorf("line %d: code %q already used on line %d", row.Line, row.Record.Code, first)
			continue
		}
		seen[row.Record.Code] = row.Line
	}
	return p
}

// ── Phase 3: Code Format ──
// Codes are looked up after normalization, so a code that does not survive
// NormalizeCode unchanged can never be found.

func validateCodeFormat(rows []dataset.Row) *phase {
	p := &phase{name: "Phase 3: Code Format (length, case)"}
	for _, row := range rows {
		code := row.Record.Code
		if n := len([]rune(string(code))); n != domain.CodeLength {
			p.errorf("line %d: code %q has length %d, want %d", row.Line, code, n, domain.CodeLength)
			continue
		}
		if domain.NormalizeCode(string(code)) != code {
			p.errorf("line %d: code %q is unreachable, lookups use %q", row.Line, code, domain.NormalizeCode(string(code)))
		}
	}
	return p
}

// ── Phase 4: Distances ──
// Checks reference distances and the engine's metric properties over the
// decoded rows.

func validateDistances(rows []dataset.Row, refs []reference) *phase {
	p := &phase{name: "Phase 4: Distances (references, properties)"}

	records := make(map[domain.Code]domain.LocationRecord, len(rows))
	for _, row := range rows {
		if _, ok := records[row.Record.Code]; !ok {
			records[row.Record.Code] = row.Record
		}
	}
	engine := domain.NewEngine(domain.NauticalMiles)

	for _, ref := range refs {
		a, okA := records[ref.from]
		b, okB := records[ref.to]
		if !okA || !okB {
			p.errorf("reference %s-%s: code not in dataset", ref.from, ref.to)
			continue
		}
		d, err := engine.Between(a, b)
		if err != nil {
			p.errorf("reference %s-%s: %v", ref.from, ref.to, err)
			continue
		}
		if math.Abs(d-ref.nm) > referenceTolerance {
			p.errorf("reference %s-%s: got %.1f nm, want %.1f nm", ref.from, ref.to, d, ref.nm)
		}
	}

	checkProperties(p, engine, rows)
	return p
}

func checkProperties(p *phase, engine domain.Engine, rows []dataset.Row) {
	const eps = 1e-6
	maxD := engine.MaxDistance()

	for i := range rows {
		a := rows[i].Record
		self, err := engine.Distance(a.Radians, a.Radians)
		if err != nil {
			p.errorf("line %d: %v", rows[i].Line, err)
			continue
		}
		if self > eps {
			p.errorf("%s: distance to itself is %g", a.Code, self)
		}
		for j := i + 1; j < len(rows); j++ {
			b := rows[j].Record
			ab, err1 := engine.Distance(a.Radians, b.Radians)
			ba, err2 := engine.Distance(b.Radians, a.Radians)
			if err1 != nil || err2 != nil {
				continue
			}
			if math.Abs(ab-ba) > eps {
				p.errorf("%s-%s: asymmetric distance %.6f vs %.6f", a.Code, b.Code, ab, ba)
			}
			if ab < 0 || ab > maxD+eps {
				p.errorf("%s-%s: distance %.1f outside [0, %.1f]", a.Code, b.Code, ab, maxD)
			}
		}
	}
}
