package cache

import (
	"fmt"
	"journey-route-service/internal/domain"
	"sync"
	"testing"
)

func key(i int) domain.SegmentKey {
	return domain.NewSegmentKey(domain.LatLng{Lat: float64(i), Lng: 0}, domain.LatLng{Lat: 0, Lng: float64(i)})
}

func TestSegmentCacheGetPut(t *testing.T) {
	c := NewSegmentCache(0, 0)

	if _, ok := c.Get(key(1)); ok {
		t.Fatalf("empty cache returned a hit")
	}

	seg := domain.RouteSegment{DistanceMeters: 1000, DurationSeconds: 60, Resolved: true}
	c.Put(key(1), seg)

	got, ok := c.Get(key(1))
	if !ok {
		t.Fatalf("expected hit after put")
	}
	if got.DistanceMeters != 1000 || got.DurationSeconds != 60 || !got.Resolved {
		t.Errorf("got %+v, want %+v", got, seg)
	}

	c.Put(key(2), domain.FallbackSegment())
	fb, ok := c.Get(key(2))
	if !ok || fb.Resolved {
		t.Errorf("fallback segment should be cached as unresolved, got %+v ok=%v", fb, ok)
	}
}

func TestSegmentCacheUnboundedByDefault(t *testing.T) {
	c := NewSegmentCache(0, 0)
	for i := 0; i < 5000; i++ {
		c.Put(key(i), domain.RouteSegment{Resolved: true})
	}
	if got := c.Len(); got != 5000 {
		t.Errorf("len = %d, want 5000", got)
	}
}

func TestSegmentCacheLRUBound(t *testing.T) {
	c := NewSegmentCache(2, 0)
	c.Put(key(1), domain.RouteSegment{DistanceMeters: 1})
	c.Put(key(2), domain.RouteSegment{DistanceMeters: 2})

	// touch 1 so 2 becomes least recently used
	c.Get(key(1))
	c.Put(key(3), domain.RouteSegment{DistanceMeters: 3})

	if _, ok := c.Get(key(2)); ok {
		t.Errorf("key 2 should have been evicted")
	}
	if _, ok := c.Get(key(1)); !ok {
		t.Errorf("key 1 should still be cached")
	}
}

func TestSegmentCacheConcurrentAccess(t *testing.T) {
	c := NewSegmentCache(0, 0)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.Put(key(i), domain.RouteSegment{DistanceMeters: float64(w)})
				c.Get(key(i))
			}
		}(w)
	}
	wg.Wait()

	for i := 0; i < 200; i++ {
		if _, ok := c.Get(key(i)); !ok {
			t.Fatalf("%s missing after concurrent writes", fmt.Sprint(key(i)))
		}
	}
}
