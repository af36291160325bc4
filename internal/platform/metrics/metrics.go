package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests can build as many as they like.
type Collector struct {
	reg *prometheus.Registry

	FetchAttempts *prometheus.CounterVec // outcome: ok|timeout|rate_limited|http_error|no_route|network_error|decode_error|cancelled
	FetchDuration prometheus.Histogram
	Fallbacks     prometheus.Counter

	CacheLookups *prometheus.CounterVec // result: hit|miss

	Resolves        *prometheus.CounterVec // outcome: ok|partial|input_error|superseded|cancelled|timeout
	ResolveDuration prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "route_segment_fetch_attempts_total",
			Help: "Provider requests issued for route segments, by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "route_segment_fetch_duration_seconds",
			Help:    "Duration of a single provider request attempt.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "route_segment_fallbacks_total",
			Help: "Segments degraded to a fallback after exhausting retries.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "route_segment_cache_lookups_total",
			Help: "Segment cache lookups, by result.",
		}, []string{"result"}),
		Resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "route_resolves_total",
			Help: "Journey resolve calls, by outcome.",
		}, []string{"outcome"}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "route_resolve_duration_seconds",
			Help:    "Duration of a journey resolve call.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		}),
	}

	reg.MustRegister(
		c.FetchAttempts, c.FetchDuration, c.Fallbacks,
		c.CacheLookups,
		c.Resolves, c.ResolveDuration,
	)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

func (c *Collector) ObserveAttempt(outcome string, d time.Duration) {
	c.FetchAttempts.WithLabelValues(outcome).Inc()
	c.FetchDuration.Observe(d.Seconds())
}

func (c *Collector) IncFallback() { c.Fallbacks.Inc() }

func (c *Collector) IncCacheLookup(hit bool) {
	if hit {
		c.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	c.CacheLookups.WithLabelValues("miss").Inc()
}

func (c *Collector) ObserveResolve(outcome string, d time.Duration) {
	c.Resolves.WithLabelValues(outcome).Inc()
	c.ResolveDuration.Observe(d.Seconds())
}
