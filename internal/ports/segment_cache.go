package ports

import "journey-route-service/internal/domain"

// Memo table of resolved segments. Implementations must be safe for concurrent use.
type SegmentCache interface {
	Get(key domain.SegmentKey) (domain.RouteSegment, bool)
	Put(key domain.SegmentKey, segment domain.RouteSegment)
}
