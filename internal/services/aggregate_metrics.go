package services

import "journey-route-service/internal/domain"

// AggregateJourney rolls ordered segments up into per-stop and whole-journey metrics.
//
// segments[i] must be the route from stops[i] to stops[i+1]. Unresolved segments carry
// zero metrics, so they add nothing to the sums and never abort aggregation.
func AggregateJourney(stops domain.StopSequence, segments []domain.RouteSegment) *domain.JourneyResult {
	cumulative := make([]float64, len(stops))

	totalDistanceMeters := 0.0
	totalDurationSeconds := 0.0

	for i := 1; i < len(stops); i++ {
		var seg domain.RouteSegment
		if i-1 < len(segments) {
			seg = segments[i-1]
		}

		cumulative[i] = cumulative[i-1] + seg.DurationSeconds
		totalDurationSeconds += seg.DurationSeconds
		totalDistanceMeters += seg.DistanceMeters
	}

	return &domain.JourneyResult{
		Stops:                     stops,
		Segments:                  segments,
		PerStopCumulativeDuration: cumulative,
		TotalDistanceMeters:       totalDistanceMeters,
		TotalDurationSeconds:      totalDurationSeconds,
	}
}
