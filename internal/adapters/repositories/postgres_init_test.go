package repositories

import "testing"

func TestParseSeed(t *testing.T) {
	data := []byte(`[
		{"journey_id": " airport-run ", "stops": [
			{"type": "pickup", "coordinates": [52.52, 13.405]},
			{"type": "dropoff", "location": {"latitude": 52.3667, "longitude": 13.5033}}
		]},
		{"journey_id": "empty", "stops": []}
	]`)

	seeds, err := ParseSeed(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seeds) != 2 {
		t.Fatalf("seeds = %d, want 2", len(seeds))
	}
	if seeds[0].JourneyID != "airport-run" {
		t.Errorf("journey id = %q, want trimmed airport-run", seeds[0].JourneyID)
	}
	if len(seeds[0].Stops) != 2 {
		t.Errorf("stops = %d, want 2", len(seeds[0].Stops))
	}
}

func TestParseSeedRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing id":   `[{"stops": []}]`,
		"duplicate id": `[{"journey_id": "a"}, {"journey_id": "a"}]`,
		"null stop":    `[{"journey_id": "a", "stops": [null]}]`,
		"not json":     `{`,
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSeed([]byte(data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
