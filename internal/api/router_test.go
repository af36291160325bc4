package api

import (
	"context"
	"encoding/json"
	"fmt"
	"journey-route-service/internal/adapters/cache"
	"journey-route-service/internal/adapters/routing"
	"journey-route-service/internal/api/dto"
	"journey-route-service/internal/domain"
	"journey-route-service/internal/platform/metrics"
	"journey-route-service/internal/ports"
	"journey-route-service/internal/services"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var (
	berlin  = domain.LatLng{Lat: 52.52, Lng: 13.405}
	potsdam = domain.LatLng{Lat: 52.3906, Lng: 13.0645}
	airport = domain.LatLng{Lat: 52.3667, Lng: 13.5033}
)

type stubJourneyRepository struct {
	journeys map[string][]domain.StopRecord
}

func (s *stubJourneyRepository) ListStopRecords(_ context.Context, id string) ([]domain.StopRecord, error) {
	recs, ok := s.journeys[id]
	if !ok {
		return nil, fmt.Errorf("list stop records %q: %w", id, ports.ErrJourneyNotFound)
	}
	return recs, nil
}

func newTestRouter(t *testing.T, repo ports.JourneyRepository) (http.Handler, *routing.MockSegmentFetcher) {
	t.Helper()

	fetcher := routing.NewMockSegmentFetcher([]routing.MockSegment{
		{From: berlin, To: potsdam, Meters: 35200, Seconds: 2700},
		{From: potsdam, To: airport, Meters: 41800, Seconds: 2340},
		{From: airport, To: berlin, Meters: 30000, Seconds: 1800, Delay: 5 * time.Second},
	})
	sessions := services.NewSessionRegistry(8, time.Minute, func() *services.RouteOrchestrator {
		return services.NewRouteOrchestrator(
			fetcher,
			cache.NewSegmentCache(0, 0),
			services.WithMaxStops(4),
			services.WithResolveTimeout(200*time.Millisecond),
		)
	})

	return NewRouter(RouterDeps{
		Sessions: sessions,
		Repo:     repo,
		Metrics:  metrics.NewCollector().Handler(),
	}), fetcher
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := serve(h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Errorf("missing X-Request-ID header")
	}

	rec = serve(h, http.MethodPost, "/health", "{}")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestPostRoutes(t *testing.T) {
	h, fetcher := newTestRouter(t, nil)

	body := `{
		"session_id": "rider-1",
		"depart_at": "2026-01-02T08:00:00Z",
		"stops": [
			{"type": "pickup", "coordinates": [52.52, 13.405]},
			{"location": {"latitude": 52.3906, "longitude": 13.0645}},
			{"type": "bogus", "coordinates": ["x", "y"]},
			{"type": "dropoff", "latitude": 52.3667, "longitude": 13.5033}
		]
	}`

	rec := serve(h, http.MethodPost, "/routes", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var res dto.JourneyResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(res.Stops) != 3 {
		t.Fatalf("stops = %d, want 3", len(res.Stops))
	}
	wantRoles := []string{"start", "intermediate", "stop"}
	for i, role := range wantRoles {
		if res.Stops[i].Role != role {
			t.Errorf("stop %d role = %q, want %q", i, res.Stops[i].Role, role)
		}
	}
	if len(res.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(res.Segments))
	}
	if g := res.Segments[0].Geometry[0]; g[0] != berlin.Lng || g[1] != berlin.Lat {
		t.Errorf("geometry[0] = %v, want [lng lat] of berlin", g)
	}
	if res.TotalDistanceMeters != 77000 || res.TotalDurationSeconds != 5040 {
		t.Errorf("totals = %vm %vs, want 77000m 5040s", res.TotalDistanceMeters, res.TotalDurationSeconds)
	}
	if res.Summary.TotalKilometers != 77 || res.Summary.Hours != 1 || res.Summary.Minutes != 24 {
		t.Errorf("summary = %+v, want 77km 1h24m", res.Summary)
	}
	if res.Partial {
		t.Errorf("journey should not be partial")
	}

	wantArrive := time.Date(2026, 1, 2, 9, 24, 0, 0, time.UTC)
	if a := res.Stops[2].ArriveAt; a == nil || !a.Equal(wantArrive) {
		t.Errorf("last arrival = %v, want %v", a, wantArrive)
	}

	// same session reuses its segment cache
	rec = serve(h, http.MethodPost, "/routes", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("second status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := fetcher.TotalCalls(); got != 2 {
		t.Errorf("provider calls = %d, want 2", got)
	}
}

func TestPostRoutesErrors(t *testing.T) {
	h, fetcher := newTestRouter(t, nil)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{"stops": [`, http.StatusBadRequest},
		{"unknown field", `{"stops": [], "hub": "x"}`, http.StatusBadRequest},
		{"trailing object", `{"stops": []}{}`, http.StatusBadRequest},
		{"no stops", `{"stops": []}`, http.StatusUnprocessableEntity},
		{"one usable stop", `{"stops": [{"coordinates": [52.52, 13.405]}, {"latitude": "52"}]}`, http.StatusUnprocessableEntity},
		{"too many stops", `{"stops": [[52.52, 13.405], [52.3906, 13.0645], [52.3667, 13.5033], [52.52, 13.405], [52.3906, 13.0645]]}`, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, http.MethodPost, "/routes", tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}

	if got := fetcher.TotalCalls(); got != 0 {
		t.Errorf("provider calls = %d, want 0", got)
	}
}

func TestJourneyRouteWithoutRepository(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := serve(h, http.MethodGet, "/journeys/any/route", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestJourneyRoute(t *testing.T) {
	var recs []domain.StopRecord
	raw := `[{"type": "pickup", "coordinates": [52.52, 13.405]}, [52.3906, 13.0645]]`
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		t.Fatalf("unmarshal records: %v", err)
	}

	repo := &stubJourneyRepository{journeys: map[string][]domain.StopRecord{"run-1": recs}}
	h, _ := newTestRouter(t, repo)

	rec := serve(h, http.MethodGet, "/journeys/run-1/route?session_id=s1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var res dto.JourneyResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.JourneyID != "run-1" {
		t.Errorf("journey_id = %q, want run-1", res.JourneyID)
	}
	if res.TotalDistanceMeters != 35200 {
		t.Errorf("distance = %v, want 35200", res.TotalDistanceMeters)
	}
	if res.Stops[0].ArriveAt != nil {
		t.Errorf("arrivals should be omitted without depart_at")
	}

	rec = serve(h, http.MethodGet, "/journeys/missing/route", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing journey status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = serve(h, http.MethodGet, "/journeys/run-1/route?depart_at=tomorrow", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad depart_at status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := serve(h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestPostRoutesProviderTooSlow(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	body := `{"stops": [[52.3667, 13.5033], [52.52, 13.405]]}`

	start := time.Now()
	rec := serve(h, http.MethodPost, "/routes", body)
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusGatewayTimeout, rec.Body.String())
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("request took %v, want about 200ms", elapsed)
	}
}
