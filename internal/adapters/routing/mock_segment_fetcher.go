package routing

import (
	"context"
	"journey-route-service/internal/domain"
	"sync"
	"time"
)

type MockSegment struct {
	From, To domain.LatLng
	Meters   float64
	Seconds  float64
	// Delay holds the fetch open; a cancelled ctx ends it early with a fallback.
	Delay time.Duration
}

// MockSegmentFetcher is an in-memory SegmentFetcher for tests and offline runs.
// Unknown pairs resolve to the fallback segment, like an unreachable provider.
type MockSegmentFetcher struct {
	m map[domain.SegmentKey]MockSegment

	mu        sync.Mutex
	calls     map[domain.SegmentKey]int
	cancelled int

	// Started, when set, receives the key of every fetch as it begins.
	Started chan domain.SegmentKey
}

func NewMockSegmentFetcher(segments []MockSegment) *MockSegmentFetcher {
	m := make(map[domain.SegmentKey]MockSegment, len(segments))
	for _, s := range segments {
		m[domain.NewSegmentKey(s.From, s.To)] = s
	}
	return &MockSegmentFetcher{m: m, calls: make(map[domain.SegmentKey]int)}
}

func (p *MockSegmentFetcher) FetchSegment(ctx context.Context, origin, destination domain.Stop) domain.RouteSegment {
	key := domain.NewSegmentKey(origin.Point(), destination.Point())

	p.mu.Lock()
	p.calls[key]++
	p.mu.Unlock()

	if p.Started != nil {
		p.Started <- key
	}

	s, ok := p.m[key]
	if !ok {
		return domain.FallbackSegment()
	}

	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			p.mu.Lock()
			p.cancelled++
			p.mu.Unlock()
			return domain.FallbackSegment()
		case <-timer.C:
		}
	}

	return domain.RouteSegment{
		Coordinates:     []domain.LatLng{s.From, s.To},
		DurationSeconds: s.Seconds,
		DistanceMeters:  s.Meters,
		Resolved:        true,
	}
}

// Calls returns how many times from->to was fetched.
func (p *MockSegmentFetcher) Calls(from, to domain.LatLng) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[domain.NewSegmentKey(from, to)]
}

func (p *MockSegmentFetcher) TotalCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		n += c
	}
	return n
}

// Cancelled returns how many delayed fetches were aborted by their context.
func (p *MockSegmentFetcher) Cancelled() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled
}
