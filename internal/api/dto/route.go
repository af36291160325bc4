package dto

import (
	"journey-route-service/internal/domain"
	"time"
)

type RouteRequest struct {
	SessionID string              `json:"session_id"`
	DepartAt  *time.Time          `json:"depart_at"`
	Stops     []domain.StopRecord `json:"stops"`
}

type StopResponse struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Role      string     `json:"role"`
	ArriveAt  *time.Time `json:"arrive_at,omitempty"`
}

type SegmentResponse struct {
	// Geometry points are [lng, lat].
	Geometry        [][]float64 `json:"geometry"`
	DistanceMeters  float64     `json:"distance_meters"`
	DurationSeconds float64     `json:"duration_seconds"`
	Resolved        bool        `json:"resolved"`
}

type SummaryResponse struct {
	TotalKilometers float64 `json:"total_kilometers"`
	Hours           int     `json:"hours"`
	Minutes         int     `json:"minutes"`
}

type JourneyResponse struct {
	JourneyID                 string            `json:"journey_id,omitempty"`
	DepartAt                  *time.Time        `json:"depart_at,omitempty"`
	Stops                     []StopResponse    `json:"stops"`
	Segments                  []SegmentResponse `json:"segments"`
	PerStopCumulativeDuration []float64         `json:"per_stop_cumulative_duration"`
	TotalDistanceMeters       float64           `json:"total_distance_meters"`
	TotalDurationSeconds      float64           `json:"total_duration_seconds"`
	Summary                   SummaryResponse   `json:"summary"`
	Partial                   bool              `json:"partial"`
}

// NewJourneyResponse maps a resolved journey onto its wire shape. Arrival times are
// only filled in when departAt is set.
func NewJourneyResponse(j *domain.JourneyResult, departAt *time.Time) JourneyResponse {
	var arrivals []time.Time
	if departAt != nil {
		arrivals = j.ArrivalTimes(*departAt)
	}

	stops := make([]StopResponse, 0, len(j.Stops))
	for i, s := range j.Stops {
		sr := StopResponse{
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Role:      string(s.Role),
		}
		if arrivals != nil {
			at := arrivals[i]
			sr.ArriveAt = &at
		}
		stops = append(stops, sr)
	}

	segments := make([]SegmentResponse, 0, len(j.Segments))
	for _, seg := range j.Segments {
		geometry := make([][]float64, 0, len(seg.Coordinates))
		for _, c := range seg.Coordinates {
			geometry = append(geometry, c.CoordsToList())
		}
		segments = append(segments, SegmentResponse{
			Geometry:        geometry,
			DistanceMeters:  seg.DistanceMeters,
			DurationSeconds: seg.DurationSeconds,
			Resolved:        seg.Resolved,
		})
	}

	sum := j.Summary()
	return JourneyResponse{
		DepartAt:                  departAt,
		Stops:                     stops,
		Segments:                  segments,
		PerStopCumulativeDuration: j.PerStopCumulativeDuration,
		TotalDistanceMeters:       j.TotalDistanceMeters,
		TotalDurationSeconds:      j.TotalDurationSeconds,
		Summary: SummaryResponse{
			TotalKilometers: sum.TotalKilometers,
			Hours:           sum.Hours,
			Minutes:         sum.Minutes,
		},
		Partial: j.Partial(),
	}
}
