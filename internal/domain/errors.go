package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldCount marks a dataset row with the wrong number of fields.
	ErrFieldCount = errors.New("wrong number of fields")

	// ErrDuplicateCode marks a second row for a code already in the dataset.
	ErrDuplicateCode = errors.New("duplicate location code")

	// ErrInconsistentCoordinates marks a row whose radian pair does not match
	// its degree pair.
	ErrInconsistentCoordinates = errors.New("radians do not match degrees")

	// ErrMissingCode marks a dataset row with an empty code field.
	ErrMissingCode = errors.New("empty location code")
)

// DataFormatError reports a malformed dataset row.
type DataFormatError struct {
	Line  int    // 1-based line in the source, 0 if unknown
	Field string // offending field name, empty for whole-row problems
	Err   error
}

func (e *DataFormatError) Error() string {
	switch {
	case e.Line > 0 && e.Field != "":
		return fmt.Sprintf("dataset line %d: field %s: %v", e.Line, e.Field, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("dataset line %d: %v", e.Line, e.Err)
	case e.Field != "":
		return fmt.Sprintf("dataset: field %s: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("dataset: %v", e.Err)
	}
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// UnknownCodeError reports a lookup of a code absent from the Directory.
type UnknownCodeError struct {
	Code Code
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown location code %q", string(e.Code))
}

// InvalidCoordinateError reports a coordinate component that is non-finite
// or outside its valid range.
type InvalidCoordinateError struct {
	Field string // "lat" or "lng"
	Value float64
	Unit  string // "rad" or "deg"
}

func (e *InvalidCoordinateError) Error() string {
	unit := e.Unit
	if unit == "" {
		unit = "rad"
	}
	return fmt.Sprintf("invalid coordinate: %s=%v %s", e.Field, e.Value, unit)
}
