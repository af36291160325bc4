package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	RoutingBaseURL     string
	RoutingRateLimit   float64 // requests per second, 0 = unlimited
	MaxParallelFetches int
	MaxStops           int
	ResolveTimeout     time.Duration // 0 = bounded only by the caller

	SegmentCacheSize int           // 0 = unbounded
	SegmentCacheTTL  time.Duration // 0 = never expires
	SessionCacheSize int
	SessionIdleTTL   time.Duration

	DatabaseURL string
	SeedPath    string

	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{
		Port:           Get("PORT", "8080"),
		RoutingBaseURL: strings.TrimRight(Get("ROUTING_BASE_URL", "https://router.project-osrm.org/route/v1/driving"), "/"),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SeedPath:       Get("SEED_PATH", "data/seeds/journeys.json"),
		LogLevel:       Get("LOG_LEVEL", "info"),
		LogFormat:      Get("LOG_FORMAT", "json"),
	}

	if u, err := url.Parse(cfg.RoutingBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid ROUTING_BASE_URL: %q", cfg.RoutingBaseURL)
	}

	var err error
	if cfg.RoutingRateLimit, err = floatEnv("ROUTING_RATE_LIMIT", 0); err != nil {
		return nil, err
	}
	if cfg.MaxParallelFetches, err = intEnv("MAX_PARALLEL_FETCHES", 8, 1); err != nil {
		return nil, err
	}
	if cfg.MaxStops, err = intEnv("MAX_STOPS", 50, 2); err != nil {
		return nil, err
	}
	if cfg.SegmentCacheSize, err = intEnv("SEGMENT_CACHE_SIZE", 0, 0); err != nil {
		return nil, err
	}
	if cfg.SessionCacheSize, err = intEnv("SESSION_CACHE_SIZE", 1024, 1); err != nil {
		return nil, err
	}

	ttl, err := intEnv("SEGMENT_CACHE_TTL_SEC", 0, 0)
	if err != nil {
		return nil, err
	}
	cfg.SegmentCacheTTL = time.Duration(ttl) * time.Second

	resolveTimeout, err := intEnv("RESOLVE_TIMEOUT_SEC", 110, 0)
	if err != nil {
		return nil, err
	}
	cfg.ResolveTimeout = time.Duration(resolveTimeout) * time.Second

	idle, err := intEnv("SESSION_IDLE_TTL_SEC", 1800, 0)
	if err != nil {
		return nil, err
	}
	cfg.SessionIdleTTL = time.Duration(idle) * time.Second

	switch strings.ToLower(strings.TrimSpace(Get("METRICS_ENABLED", "true"))) {
	case "0", "false", "f", "no", "n", "off":
		cfg.MetricsEnabled = false
	default:
		cfg.MetricsEnabled = true
	}

	return cfg, nil
}

func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback, min int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < min {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}
