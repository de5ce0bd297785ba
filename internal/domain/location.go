package domain

import (
	"context"
	"errors"
	"maps"
	"math"
	"slices"
)

const (
	// CodeLength is the canonical length of a location code.
	CodeLength = 3

	// ConsistencyTolerance bounds |radians - degrees·π/180| for a record.
	ConsistencyTolerance = 1e-4

	// rangeTolerance lets radians rounded to six places sit just past ±π/2
	// and ±π (e.g. -3.141593 for a longitude of -180°).
	rangeTolerance = 1e-6
)

// Code identifies a location within a Directory.
type Code string

// Degrees is a latitude/longitude pair in degrees. It is a presentation
// form only and is never accepted by the Engine.
type Degrees struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Radians is a latitude/longitude pair in radians, the Engine's input.
type Radians struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ToRadians converts a degree pair.
func (d Degrees) ToRadians() Radians {
	return Radians{Lat: d.Lat * math.Pi / 180, Lng: d.Lng * math.Pi / 180}
}

// Validate checks latitude ∈ [-90, 90] and longitude ∈ [-180, 180].
func (d Degrees) Validate() error {
	if math.IsNaN(d.Lat) || math.IsInf(d.Lat, 0) || d.Lat < -90 || d.Lat > 90 {
		return &InvalidCoordinateError{Field: "lat", Value: d.Lat, Unit: "deg"}
	}
	if math.IsNaN(d.Lng) || math.IsInf(d.Lng, 0) || d.Lng < -180 || d.Lng > 180 {
		return &InvalidCoordinateError{Field: "lng", Value: d.Lng, Unit: "deg"}
	}
	return nil
}

// Validate checks latitude ∈ [-π/2, π/2] and longitude ∈ [-π, π].
func (r Radians) Validate() error {
	if !within(r.Lat, math.Pi/2) {
		return &InvalidCoordinateError{Field: "lat", Value: r.Lat, Unit: "rad"}
	}
	if !within(r.Lng, math.Pi) {
		return &InvalidCoordinateError{Field: "lng", Value: r.Lng, Unit: "rad"}
	}
	return nil
}

func within(v, limit float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= -limit-rangeTolerance && v <= limit+rangeTolerance
}

// LocationRecord is a single named location.
type LocationRecord struct {
	Code    Code    `json:"code"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Degrees Degrees `json:"degrees"`
	Radians Radians `json:"radians"`
}

// Consistent reports whether the record's radian pair matches its degree
// pair within ConsistencyTolerance.
func (r LocationRecord) Consistent() bool {
	want := r.Degrees.ToRadians()
	return math.Abs(r.Radians.Lat-want.Lat) <= ConsistencyTolerance &&
		math.Abs(r.Radians.Lng-want.Lng) <= ConsistencyTolerance
}

// Directory maps codes to records. It is built once and never mutated, so
// concurrent readers need no locking.
type Directory struct {
	records map[Code]LocationRecord
}

// NewDirectory builds a Directory from records keyed by code. The map is
// copied; later changes to it do not affect the Directory.
func NewDirectory(records map[Code]LocationRecord) *Directory {
	return &Directory{records: maps.Clone(records)}
}

// Lookup returns the record stored under code. The match is exact.
func (d *Directory) Lookup(code Code) (LocationRecord, error) {
	if d != nil {
		if rec, ok := d.records[code]; ok {
			return rec, nil
		}
	}
	return LocationRecord{}, &UnknownCodeError{Code: code}
}

// Len returns the number of locations.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Codes returns every code in ascending order.
func (d *Directory) Codes() []Code {
	if d == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(d.records))
}

// CheckReadiness returns an error until the Directory holds at least one
// location.
func (d *Directory) CheckReadiness(_ context.Context) error {
	if d.Len() == 0 {
		return errors.New("location directory is empty")
	}
	return nil
}
