package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"journey-route-service/internal/domain"
	"journey-route-service/internal/platform/obs"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// MaxRetries is the number of retries after the first attempt (3 attempts in total).
	MaxRetries = 2
	// BackoffBase is the wait before the first retry; it doubles on each further retry.
	BackoffBase = 300 * time.Millisecond
	// AttemptTimeout bounds each provider request; every retry gets a fresh budget.
	AttemptTimeout = 5 * time.Second
)

var (
	errNoRoute     = errors.New("provider returned no route")
	errRateLimited = errors.New("rate limiter")
)

// Observer for per-attempt outcomes. Satisfied by *metrics.Collector.
type FetchMetrics interface {
	ObserveAttempt(outcome string, d time.Duration)
	IncFallback()
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry string  `json:"geometry"`
		Duration float64 `json:"duration"`
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

// OSRMSegmentFetcher implements SegmentFetcher against an OSRM-compatible route service.
//
// Each segment is one GET request. Failed attempts (timeouts, non-2xx responses,
// network errors, empty route lists, undecodable payloads) are retried with exponential
// backoff; once retries are exhausted the fetcher returns a fallback segment instead of
// an error. The fetcher holds no per-segment state and is safe for concurrent use.
type OSRMSegmentFetcher struct {
	session *http.Client
	baseURL string
	limiter *rate.Limiter
	metrics FetchMetrics

	// wait sleeps between attempts; replaced in tests to record backoff.
	wait func(ctx context.Context, d time.Duration) error
	// attemptTimeout is the fresh budget each attempt gets.
	attemptTimeout time.Duration
}

type Option func(*OSRMSegmentFetcher)

// WithRateLimit caps outbound requests per second across all segments. 0 disables it.
func WithRateLimit(perSecond float64) Option {
	return func(o *OSRMSegmentFetcher) {
		if perSecond > 0 {
			burst := int(math.Ceil(perSecond))
			o.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

func WithMetrics(m FetchMetrics) Option {
	return func(o *OSRMSegmentFetcher) { o.metrics = m }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *OSRMSegmentFetcher) { o.session = c }
}

func NewOSRMSegmentFetcher(baseURL string, opts ...Option) (*OSRMSegmentFetcher, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("routing base url is empty")
	}

	fetcher := &OSRMSegmentFetcher{
		// Per-attempt deadlines come from the request context.
		session:        &http.Client{},
		baseURL:        baseURL,
		wait:           sleepCtx,
		attemptTimeout: AttemptTimeout,
	}
	for _, opt := range opts {
		opt(fetcher)
	}

	return fetcher, nil
}

// FetchSegment resolves origin->destination. It always returns a segment; a segment
// with Resolved=false means every attempt failed or ctx was cancelled.
func (o *OSRMSegmentFetcher) FetchSegment(
	ctx context.Context,
	origin domain.Stop,
	destination domain.Stop,
) domain.RouteSegment {
	key := domain.NewSegmentKey(origin.Point(), destination.Point())

	for attempt := 0; ; attempt++ {
		seg, err := o.fetchOnce(ctx, origin, destination)
		if err == nil {
			return seg
		}

		if ctx.Err() != nil {
			log.Debug().
				Str("req_id", obs.RequestID(ctx)).
				Str("segment", string(key)).
				Int("attempt", attempt).
				Msg("segment fetch cancelled")
			return domain.FallbackSegment()
		}

		log.Debug().
			Str("req_id", obs.RequestID(ctx)).
			Str("segment", string(key)).
			Int("attempt", attempt).
			Err(err).
			Msg("segment fetch attempt failed")

		if attempt >= MaxRetries {
			if o.metrics != nil {
				o.metrics.IncFallback()
			}
			log.Warn().
				Str("req_id", obs.RequestID(ctx)).
				Str("segment", string(key)).
				Int("attempts", attempt+1).
				Err(err).
				Msg("segment unresolved, using fallback")
			return domain.FallbackSegment()
		}

		if err := o.wait(ctx, backoff(attempt)); err != nil {
			return domain.FallbackSegment()
		}
	}
}

// backoff is the wait after a failed attempt: BackoffBase * 2^attempt.
func backoff(attempt int) time.Duration {
	return BackoffBase << attempt
}

func (o *OSRMSegmentFetcher) fetchOnce(
	ctx context.Context,
	origin domain.Stop,
	destination domain.Stop,
) (_ domain.RouteSegment, err error) {
	start := time.Now()
	defer func() {
		if o.metrics != nil {
			o.metrics.ObserveAttempt(attemptOutcome(ctx, err), time.Since(start))
		}
	}()

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return domain.RouteSegment{}, fmt.Errorf("%w: %v", errRateLimited, err)
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	defer cancel()

	req, err := o.newRequest(attemptCtx, http.MethodGet, o.routeURL(origin, destination), nil)
	if err != nil {
		return domain.RouteSegment{}, err
	}

	resp, err := o.do(req)
	if err != nil {
		return domain.RouteSegment{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var rr routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return domain.RouteSegment{}, fmt.Errorf("decode route response: %w", err)
	}

	if len(rr.Routes) == 0 {
		return domain.RouteSegment{}, fmt.Errorf("%w (code=%q)", errNoRoute, rr.Code)
	}

	route := rr.Routes[0]
	coords, err := DecodePolyline(route.Geometry)
	if err != nil {
		return domain.RouteSegment{}, fmt.Errorf("decode route geometry: %w", err)
	}

	return domain.RouteSegment{
		Coordinates:     coords,
		DurationSeconds: math.Max(0, route.Duration),
		DistanceMeters:  math.Max(0, route.Distance),
		Resolved:        true,
	}, nil
}

// routeURL addresses the provider as {base}/{originLng},{originLat};{destLng},{destLat}.
func (o *OSRMSegmentFetcher) routeURL(origin, destination domain.Stop) string {
	return fmt.Sprintf(
		"%s/%s,%s;%s,%s?overview=full",
		o.baseURL,
		formatCoord(origin.Longitude), formatCoord(origin.Latitude),
		formatCoord(destination.Longitude), formatCoord(destination.Latitude),
	)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
