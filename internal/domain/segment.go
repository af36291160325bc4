package domain

import (
	"fmt"
	"math"
)

// keyPrecision matches the precision of the provider's encoded polylines.
const keyPrecision = 1e5

// Canonical, order-sensitive identity of an origin->destination segment.
type SegmentKey string

func NewSegmentKey(origin, destination LatLng) SegmentKey {
	return SegmentKey(fmt.Sprintf(
		"%.5f,%.5f;%.5f,%.5f",
		quantize(origin.Lat), quantize(origin.Lng),
		quantize(destination.Lat), quantize(destination.Lng),
	))
}

func quantize(v float64) float64 {
	q := math.Round(v*keyPrecision) / keyPrecision
	if q == 0 {
		// collapse -0 so both signs format identically
		return 0
	}
	return q
}

// Represents the driving route between two consecutive stops.
//
// Resolved=false marks a fallback segment produced when the provider could not
// answer: it has no geometry and zero metrics, and is a valid value rather than an error.
type RouteSegment struct {
	Coordinates     []LatLng
	DurationSeconds float64
	DistanceMeters  float64
	Resolved        bool
}

func FallbackSegment() RouteSegment {
	return RouteSegment{Coordinates: []LatLng{}}
}
