// Package domain models named surface locations and the great-circle
// distance between them.
//
// # Data Source
//
// Locations come from an openflights.org airport export, one CSV row per
// airport with no header:
//
//	name, region, code, lat_deg, lng_deg, lat_rad, lng_rad, altitude
//	"Los Angeles Intl","Los Angeles","LAX",33.942536,-118.408075,0.592409,-2.066611,126
//
// The dataset carries each coordinate twice. The radian pair is the only form
// the [Engine] reads; the degree pair exists for presentation collaborators
// such as map rendering. The two forms are separate types ([Radians] and
// [Degrees]) so a degree value can never reach the trigonometry. Altitude is
// in the schema but unused.
//
// # Codes
//
// A [Code] is a short identifier, canonically three letters (IATA). The
// [Directory] looks codes up exactly as stored. Matching user input
// ("lax", "LAX Los Angeles") is a caller concern handled by [NormalizeCode].
//
// # Distance
//
// The central angle between two points is computed with the atan2 form of
// the spherical law (see [AngularDistance]):
//
//	Δλ  = |λA − λB|
//	num = sqrt((cosφB·sinΔλ)² + (cosφA·sinφB − sinφA·cosφB·cosΔλ)²)
//	den = sinφA·sinφB + cosφA·cosφB·cosΔλ
//	σ   = atan2(num, den)
//
// atan2 stays well conditioned near 0 and π, where arccos loses precision,
// and is defined when den is zero. Linear distance is σ times the Earth
// radius of the engine's [Unit]: 3440.06 for nautical miles, 6371 for
// kilometres. The Earth is a sphere; there is no ellipsoid correction.
//
// # Errors
//
// [DataFormatError] reports malformed dataset rows, [UnknownCodeError] a
// lookup miss and [InvalidCoordinateError] a coordinate that is non-finite
// or outside its radian range. Nothing in this package logs or retries.
package domain
