package services

import (
	"journey-route-service/internal/domain"
	"strings"
)

type stopKind int

const (
	kindOther stopKind = iota
	kindPickup
	kindDropoff
)

func classifyStopType(t string) stopKind {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "pickup", "pick_up", "pick-up", "start", "origin":
		return kindPickup
	case "dropoff", "drop_off", "drop-off", "destination", "end":
		return kindDropoff
	default:
		return kindOther
	}
}

// NormalizeStops converts caller records into a validated StopSequence.
//
// Records without usable coordinates are dropped. Roles are assigned over the kept
// records in input order: the first pickup becomes the start, drop-offs become stops,
// and everything else (later pickups included) is intermediate.
func NormalizeStops(records []domain.StopRecord) domain.StopSequence {
	stops := make(domain.StopSequence, 0, len(records))
	startAssigned := false

	for _, r := range records {
		if r.Source == domain.SourceNone {
			continue
		}

		role := domain.RoleIntermediate
		switch classifyStopType(r.Type) {
		case kindPickup:
			if !startAssigned {
				role = domain.RoleStart
				startAssigned = true
			}
		case kindDropoff:
			role = domain.RoleStop
		}

		stop, err := domain.NewStop(r.Point.Lat, r.Point.Lng, role)
		if err != nil {
			continue
		}
		stops = append(stops, stop)
	}

	return stops
}
