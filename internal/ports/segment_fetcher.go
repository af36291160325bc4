package ports

import (
	"context"
	"journey-route-service/internal/domain"
)

// Contract for resolving the driving route between two stops.
type SegmentFetcher interface {
	// Return the segment from origin to destination.
	// Implementations never fail: an unreachable segment comes back with Resolved=false.
	FetchSegment(ctx context.Context, origin domain.Stop, destination domain.Stop) domain.RouteSegment
}
