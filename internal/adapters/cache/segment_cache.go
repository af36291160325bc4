package cache

import (
	"journey-route-service/internal/domain"
	"time"

	"github.com/bluele/gcache"
)

// In-memory memo table for resolved route segments.
//
// With size 0 the cache is unbounded and entries never expire, so a segment is fetched
// at most once per cache lifetime. A positive size switches to LRU eviction; a positive
// ttl expires entries after that long. Safe for concurrent use; concurrent writers of
// the same key leave the last value written.
type SegmentCache struct {
	c gcache.Cache
}

func NewSegmentCache(size int, ttl time.Duration) *SegmentCache {
	b := gcache.New(size)
	if size > 0 {
		b = b.LRU()
	} else {
		b = b.Simple()
	}
	if ttl > 0 {
		b = b.Expiration(ttl)
	}

	return &SegmentCache{c: b.Build()}
}

func (s *SegmentCache) Get(key domain.SegmentKey) (domain.RouteSegment, bool) {
	v, err := s.c.Get(key)
	if err != nil {
		return domain.RouteSegment{}, false
	}

	seg, ok := v.(domain.RouteSegment)
	return seg, ok
}

func (s *SegmentCache) Put(key domain.SegmentKey, segment domain.RouteSegment) {
	// Set only fails when a serialize func is configured.
	_ = s.c.Set(key, segment)
}

// Len reports the number of live entries.
func (s *SegmentCache) Len() int { return s.c.Len(true) }
