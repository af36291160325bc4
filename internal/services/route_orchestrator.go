package services

import (
	"context"
	"errors"
	"fmt"
	"journey-route-service/internal/domain"
	"journey-route-service/internal/platform/obs"
	"journey-route-service/internal/ports"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultMaxParallel = 8

// Observer for resolve outcomes and cache lookups. Satisfied by *metrics.Collector.
type ResolveMetrics interface {
	IncCacheLookup(hit bool)
	ObserveResolve(outcome string, d time.Duration)
}

// RouteOrchestrator resolves stop sequences into ordered route segments.
//
// Only the most recent Resolve call on an orchestrator is live: starting a new call
// cancels the previous one, aborting its in-flight fetches and discarding whatever they
// return. Segments are cached for the orchestrator's lifetime, fallbacks included, but a
// call only writes to the cache while it is still live.
type RouteOrchestrator struct {
	fetcher     ports.SegmentFetcher
	cache       ports.SegmentCache
	maxParallel int
	maxStops    int
	timeout     time.Duration
	metrics     ResolveMetrics

	mu         sync.Mutex
	generation uint64
	cancelLive context.CancelCauseFunc
}

type OrchestratorOption func(*RouteOrchestrator)

// WithMaxParallel bounds concurrent segment fetches within one Resolve call.
func WithMaxParallel(n int) OrchestratorOption {
	return func(o *RouteOrchestrator) {
		if n > 0 {
			o.maxParallel = n
		}
	}
}

// WithMaxStops rejects sequences longer than n with an *InputError. 0 means no cap.
func WithMaxStops(n int) OrchestratorOption {
	return func(o *RouteOrchestrator) {
		if n > 0 {
			o.maxStops = n
		}
	}
}

// WithResolveTimeout bounds a whole Resolve call, retries included.
func WithResolveTimeout(d time.Duration) OrchestratorOption {
	return func(o *RouteOrchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithResolveMetrics(m ResolveMetrics) OrchestratorOption {
	return func(o *RouteOrchestrator) { o.metrics = m }
}

func NewRouteOrchestrator(
	fetcher ports.SegmentFetcher,
	cache ports.SegmentCache,
	opts ...OrchestratorOption,
) *RouteOrchestrator {
	o := &RouteOrchestrator{
		fetcher:     fetcher,
		cache:       cache,
		maxParallel: defaultMaxParallel,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ResolveRecords normalizes caller records and resolves the resulting stops.
func (o *RouteOrchestrator) ResolveRecords(ctx context.Context, records []domain.StopRecord) (*domain.JourneyResult, error) {
	return o.Resolve(ctx, NormalizeStops(records))
}

// Resolve fetches every consecutive segment of stops concurrently and aggregates them.
//
// It returns *InputError for fewer than two stops, or more than the configured cap,
// without touching the provider, and ErrSuperseded when a newer call replaced this one
// before it finished. Segments the provider could not resolve are folded into the
// result as fallbacks.
func (o *RouteOrchestrator) Resolve(ctx context.Context, stops domain.StopSequence) (_ *domain.JourneyResult, err error) {
	defer obs.Time(ctx, "orchestrator.Resolve")(&err)

	start := time.Now()
	outcome := "ok"
	defer func() {
		if o.metrics != nil {
			o.metrics.ObserveResolve(outcome, time.Since(start))
		}
	}()

	if len(stops) < 2 {
		outcome = "input_error"
		return nil, &InputError{Stops: len(stops)}
	}
	if o.maxStops > 0 && len(stops) > o.maxStops {
		outcome = "input_error"
		return nil, &InputError{Stops: len(stops), Max: o.maxStops}
	}

	if o.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, o.timeout)
		defer cancelTimeout()
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	gen := o.supersede(cancel)
	defer o.release(gen)

	pairs := stops.Pairs()
	segments := make([]domain.RouteSegment, len(pairs))

	// Pair indices per missing key, so a segment repeated within one call is fetched once.
	missing := make(map[domain.SegmentKey][]int)
	order := make([]domain.SegmentKey, 0, len(pairs))
	hits := 0
	for i, p := range pairs {
		key := p.Key()
		if idxs, ok := missing[key]; ok {
			missing[key] = append(idxs, i)
			continue
		}

		seg, ok := o.cache.Get(key)
		if o.metrics != nil {
			o.metrics.IncCacheLookup(ok)
		}
		if ok {
			segments[i] = seg
			hits++
			continue
		}

		missing[key] = []int{i}
		order = append(order, key)
	}

	var g errgroup.Group
	g.SetLimit(o.maxParallel)

	for _, key := range order {
		key := key
		idxs := missing[key]
		pair := pairs[idxs[0]]

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			seg := o.fetcher.FetchSegment(ctx, pair.Origin, pair.Destination)
			o.store(ctx, gen, key, seg)

			for _, i := range idxs {
				segments[i] = seg
			}
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		cause := context.Cause(ctx)
		if errors.Is(cause, ErrSuperseded) {
			outcome = "superseded"
			return nil, ErrSuperseded
		}
		outcome = "cancelled"
		if errors.Is(cause, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		return nil, fmt.Errorf("resolve: %w", cause)
	}

	result := AggregateJourney(stops, segments)
	if result.Partial() {
		outcome = "partial"
	}

	log.Info().
		Str("req_id", obs.RequestID(ctx)).
		Int("stops", len(stops)).
		Int("segments", len(segments)).
		Int("cache_hits", hits).
		Int("fetched", len(order)).
		Int("unresolved", result.UnresolvedSegments()).
		Float64("distance_m", result.TotalDistanceMeters).
		Float64("duration_s", result.TotalDurationSeconds).
		Msg("journey resolved")

	return result, nil
}

// supersede makes the caller the live call, cancelling whichever call was live before.
func (o *RouteOrchestrator) supersede(cancel context.CancelCauseFunc) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancelLive != nil {
		o.cancelLive(ErrSuperseded)
	}
	o.generation++
	o.cancelLive = cancel
	return o.generation
}

func (o *RouteOrchestrator) release(gen uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.generation == gen {
		o.cancelLive = nil
	}
}

// store caches seg only if gen is still the live call and its context is intact.
// Holding mu across the check and the write keeps a superseded call from writing
// after its successor has started.
func (o *RouteOrchestrator) store(ctx context.Context, gen uint64, key domain.SegmentKey, seg domain.RouteSegment) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation || ctx.Err() != nil {
		return
	}
	o.cache.Put(key, seg)
}
