package domain

import "math"

// Immutable geographic point (latitude, longitude).
type LatLng struct {
	Lat float64
	Lng float64
}

// Valid reports whether the point is finite and inside WGS84 latitude/longitude ranges.
func (c LatLng) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Return coordinates as [lng, lat] for external API compatibility.
func (c LatLng) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }
