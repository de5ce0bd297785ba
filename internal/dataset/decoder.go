// Package dataset reads location datasets into a domain.Directory.
//
// A dataset is CSV without a header, one location per row:
//
//	name, region, code, lat_deg, lng_deg, lat_rad, lng_rad, altitude
//
// Altitude must be present but is not interpreted.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/crowflies/internal/domain"
)

// Field positions within a row.
const (
	fieldName = iota
	fieldRegion
	fieldCode
	fieldLatDeg
	fieldLngDeg
	fieldLatRad
	fieldLngRad
	fieldAltitude

	fieldCount
)

var fieldNames = [fieldCount]string{
	"name", "region", "code", "lat_deg", "lng_deg", "lat_rad", "lng_rad", "altitude",
}

// Row is one decoded dataset row.
type Row struct {
	Line   int
	Record domain.LocationRecord
}

// Decoder reads rows one at a time. A malformed row produces a
// *domain.DataFormatError and the Decoder moves on to the next row, so
// callers may collect every problem in a file.
type Decoder struct {
	cr *csv.Reader
}

// NewDecoder returns a Decoder reading CSV from r.
func NewDecoder(r io.Reader) *Decoder {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // arity is checked per row to report the line
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &Decoder{cr: cr}
}

// Decode returns the next row, or io.EOF when the input is exhausted.
func (d *Decoder) Decode() (Row, error) {
	fields, err := d.cr.Read()
	if errors.Is(err, io.EOF) {
		return Row{}, io.EOF
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return Row{}, &domain.DataFormatError{Line: pe.Line, Err: pe.Err}
		}
		return Row{}, fmt.Errorf("read dataset: %w", err)
	}

	line, _ := d.cr.FieldPos(0)
	rec, err := parseRecord(fields, line)
	if err != nil {
		return Row{}, err
	}
	return Row{Line: line, Record: rec}, nil
}

func parseRecord(fields []string, line int) (domain.LocationRecord, error) {
	if len(fields) != fieldCount {
		return domain.LocationRecord{}, &domain.DataFormatError{
			Line: line,
			Err:  fmt.Errorf("%w: got %d, want %d", domain.ErrFieldCount, len(fields), fieldCount),
		}
	}

	code := strings.TrimSpace(fields[fieldCode])
	if code == "" {
		return domain.LocationRecord{}, &domain.DataFormatError{Line: line, Field: fieldNames[fieldCode], Err: domain.ErrMissingCode}
	}

	var coords [4]float64
	for i, idx := range []int{fieldLatDeg, fieldLngDeg, fieldLatRad, fieldLngRad} {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[idx]), 64)
		if err != nil {
			return domain.LocationRecord{}, &domain.DataFormatError{Line: line, Field: fieldNames[idx], Err: err}
		}
		coords[i] = v
	}

	rec := domain.LocationRecord{
		Code:    domain.Code(code),
		Name:    strings.TrimSpace(fields[fieldName]),
		Region:  strings.TrimSpace(fields[fieldRegion]),
		Degrees: domain.Degrees{Lat: coords[0], Lng: coords[1]},
		Radians: domain.Radians{Lat: coords[2], Lng: coords[3]},
	}
	if err := validateRecord(rec, line); err != nil {
		return domain.LocationRecord{}, err
	}
	return rec, nil
}

func validateRecord(rec domain.LocationRecord, line int) error {
	var coordErr *domain.InvalidCoordinateError

	if err := rec.Degrees.Validate(); err != nil {
		field := fieldNames[fieldLatDeg]
		if errors.As(err, &coordErr) && coordErr.Field == "lng" {
			field = fieldNames[fieldLngDeg]
		}
		return &domain.DataFormatError{Line: line, Field: field, Err: err}
	}
	if err := rec.Radians.Validate(); err != nil {
		field := fieldNames[fieldLatRad]
		if errors.As(err, &coordErr) && coordErr.Field == "lng" {
			field = fieldNames[fieldLngRad]
		}
		return &domain.DataFormatError{Line: line, Field: field, Err: err}
	}
	if !rec.Consistent() {
		want := rec.Degrees.ToRadians()
		return &domain.DataFormatError{
			Line: line,
			Err: fmt.Errorf("%w: got (%g, %g), want (%.6f, %.6f)",
				domain.ErrInconsistentCoordinates, rec.Radians.Lat, rec.Radians.Lng, want.Lat, want.Lng),
		}
	}
	return nil
}
