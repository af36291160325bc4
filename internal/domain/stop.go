package domain

import "fmt"

// Role of a stop inside a journey.
type Role string

const (
	RoleStart        Role = "start"
	RoleIntermediate Role = "intermediate"
	RoleStop         Role = "stop"
)

// Represents a single validated waypoint of a journey.
// A Stop is only ever built through NewStop, so its coordinates are always in range.
type Stop struct {
	Latitude  float64
	Longitude float64
	Role      Role
}

func NewStop(lat, lng float64, role Role) (Stop, error) {
	p := LatLng{Lat: lat, Lng: lng}
	if !p.Valid() {
		return Stop{}, fmt.Errorf("new stop: coordinates out of range lat=%v lng=%v", lat, lng)
	}

	switch role {
	case RoleStart, RoleIntermediate, RoleStop:
	default:
		return Stop{}, fmt.Errorf("new stop: unknown role %q", role)
	}

	return Stop{Latitude: lat, Longitude: lng, Role: role}, nil
}

func (s Stop) Point() LatLng { return LatLng{Lat: s.Latitude, Lng: s.Longitude} }

// Ordered list of stops making up one journey.
type StopSequence []Stop

// A consecutive (origin, destination) pair of a StopSequence.
type StopPair struct {
	Origin      Stop
	Destination Stop
}

func (p StopPair) Key() SegmentKey {
	return NewSegmentKey(p.Origin.Point(), p.Destination.Point())
}

// Pairs returns the len(s)-1 consecutive pairs in input order.
func (s StopSequence) Pairs() []StopPair {
	if len(s) < 2 {
		return []StopPair{}
	}

	pairs := make([]StopPair, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		pairs = append(pairs, StopPair{Origin: s[i-1], Destination: s[i]})
	}
	return pairs
}
