// Package geo provides great-circle distance calculations used for
// proximity-validated attendance.
package geo

import "math"

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// Point is a coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are real, finite numbers.
func (p Point) Valid() bool {
	return isFinite(p.Lat) && isFinite(p.Lng)
}

// Distance returns the haversine great-circle distance between two points in meters.
func Distance(a, b Point) float64 {
	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	deltaPhi := radians(b.Lat - a.Lat)
	deltaLambda := radians(b.Lng - a.Lng)

	h := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// WithinRadius reports whether the two points are at most radiusMeters apart.
// Malformed points (NaN or infinite components) never satisfy the radius.
func WithinRadius(a, b Point, radiusMeters float64) bool {
	if !a.Valid() || !b.Valid() {
		return false
	}
	if radiusMeters < 0 {
		return false
	}

	return Distance(a, b) <= radiusMeters
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
