package domain

import (
	"fmt"
	"math"
	"strings"
)

// Unit is a linear distance unit, defined by the Earth radius expressed in
// that unit.
type Unit struct {
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	EarthRadius float64 `json:"earth_radius"`
}

var (
	NauticalMiles = Unit{Name: "nautical miles", Symbol: "nm", EarthRadius: 3440.06}
	Kilometers    = Unit{Name: "kilometers", Symbol: "km", EarthRadius: 6371.0}
	StatuteMiles  = Unit{Name: "statute miles", Symbol: "mi", EarthRadius: 3958.76}
)

// ParseUnit maps a unit symbol ("nm", "km", "mi") to its Unit.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nm", "nmi":
		return NauticalMiles, nil
	case "km":
		return Kilometers, nil
	case "mi":
		return StatuteMiles, nil
	default:
		return Unit{}, fmt.Errorf("unknown distance unit %q", s)
	}
}

// Engine computes great-circle distances on a sphere whose radius is given
// by its Unit. The zero value is not usable; use NewEngine.
type Engine struct {
	unit Unit
}

// NewEngine returns an engine reporting distances in unit.
func NewEngine(unit Unit) Engine {
	return Engine{unit: unit}
}

// Unit returns the engine's distance unit.
func (e Engine) Unit() Unit { return e.unit }

// MaxDistance is the largest possible result: half the circumference.
func (e Engine) MaxDistance() float64 { return math.Pi * e.unit.EarthRadius }

// Distance returns the great-circle distance between a and b.
func (e Engine) Distance(a, b Radians) (float64, error) {
	angle, err := AngularDistance(a, b)
	if err != nil {
		return 0, err
	}
	return e.unit.EarthRadius * angle, nil
}

// Between returns the distance between two records using their radian
// coordinates.
func (e Engine) Between(a, b LocationRecord) (float64, error) {
	d, err := e.Distance(a.Radians, b.Radians)
	if err != nil {
		return 0, fmt.Errorf("distance %s to %s: %w", a.Code, b.Code, err)
	}
	return d, nil
}

// AngularDistance returns the central angle in radians between a and b,
// in [0, π].
func AngularDistance(a, b Radians) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}

	sinA, cosA := math.Sincos(a.Lat)
	sinB, cosB := math.Sincos(b.Lat)
	sinD, cosD := math.Sincos(math.Abs(a.Lng - b.Lng))

	x := cosB * sinD
	y := cosA*sinB - sinA*cosB*cosD
	num := math.Sqrt(x*x + y*y)
	den := sinA*sinB + cosA*cosB*cosD

	return math.Atan2(num, den), nil
}
