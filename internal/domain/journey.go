package domain

import (
	"math"
	"time"
)

// Represents the resolved route for an ordered list of stops.
// A JourneyResult is built once per resolve call and is never mutated afterwards;
// PerStopCumulativeDuration is aligned to Stops and Segments to consecutive stop pairs.
type JourneyResult struct {
	Stops                     StopSequence
	Segments                  []RouteSegment
	PerStopCumulativeDuration []float64
	TotalDistanceMeters       float64
	TotalDurationSeconds      float64
}

// Human units derived from journey totals.
type JourneySummary struct {
	TotalKilometers float64
	Hours           int
	Minutes         int
}

func (j *JourneyResult) Summary() JourneySummary {
	km := math.Round(j.TotalDistanceMeters/100) / 10
	totalMinutes := int(math.Round(j.TotalDurationSeconds / 60))

	return JourneySummary{
		TotalKilometers: km,
		Hours:           totalMinutes / 60,
		Minutes:         totalMinutes % 60,
	}
}

func (j *JourneyResult) UnresolvedSegments() int {
	n := 0
	for _, s := range j.Segments {
		if !s.Resolved {
			n++
		}
	}
	return n
}

// Partial reports whether any segment fell back, meaning totals undercount.
func (j *JourneyResult) Partial() bool { return j.UnresolvedSegments() > 0 }

// ArrivalTimes projects the cumulative durations onto a departure time.
func (j *JourneyResult) ArrivalTimes(departAt time.Time) []time.Time {
	out := make([]time.Time, 0, len(j.PerStopCumulativeDuration))
	for _, secs := range j.PerStopCumulativeDuration {
		out = append(out, departAt.Add(time.Duration(secs*float64(time.Second))))
	}
	return out
}
