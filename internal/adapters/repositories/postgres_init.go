package repositories

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createJourneysQuery := `
	CREATE TABLE IF NOT EXISTS journeys (
		journey_id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createJourneyStopsQuery := `
	CREATE TABLE IF NOT EXISTS journey_stops (
		journey_id TEXT NOT NULL REFERENCES journeys(journey_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		record JSONB NOT NULL,
		PRIMARY KEY (journey_id, position)
	);
	`

	statements := []string{
		createJourneysQuery,
		createJourneyStopsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type JourneySeed struct {
	JourneyID string            `json:"journey_id"`
	Stops     []json.RawMessage `json:"stops"`
}

// ParseSeed validates journey seed data. Stop records are kept verbatim; unusable
// coordinates are the normalizer's concern, not the seed's.
func ParseSeed(data []byte) ([]JourneySeed, error) {
	var seeds []JourneySeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("seed journeys: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(seeds))
	out := make([]JourneySeed, 0, len(seeds))
	for i, item := range seeds {
		id := strings.TrimSpace(item.JourneyID)
		if id == "" {
			return nil, fmt.Errorf("seed journeys: item at index %d: journey_id cannot be empty", i+1)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("seed journeys: item at index %d: duplicate journey_id %q", i+1, id)
		}
		seen[id] = struct{}{}

		for j, s := range item.Stops {
			if len(bytes.TrimSpace(s)) == 0 || bytes.Equal(bytes.TrimSpace(s), []byte("null")) {
				return nil, fmt.Errorf("seed journeys: journey %q stop %d: record cannot be null", id, j+1)
			}
		}

		out = append(out, JourneySeed{JourneyID: id, Stops: item.Stops})
	}

	return out, nil
}

// Populate the database with journey data from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed journeys: read %q: %w", jsonPath, err)
	}

	seeds, err := ParseSeed(data)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed journeys: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, j := range seeds {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO journeys (journey_id)
		VALUES ($1)
		ON CONFLICT (journey_id) DO NOTHING;
		`, j.JourneyID); err != nil {
			return fmt.Errorf("seed journeys: insert journey_id=%q: %w", j.JourneyID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM journey_stops WHERE journey_id = $1;`,
			j.JourneyID,
		); err != nil {
			return fmt.Errorf("seed journeys: clear stops journey_id=%q: %w", j.JourneyID, err)
		}

		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO journey_stops (
			journey_id,
			position,
			record
		)
		VALUES ($1, $2, $3::jsonb);
		`)
		if err != nil {
			return fmt.Errorf("seed journeys: prepare insert: %w", err)
		}

		for pos, rec := range j.Stops {
			if _, err := stmt.ExecContext(ctx, j.JourneyID, pos, string(rec)); err != nil {
				stmt.Close()
				return fmt.Errorf("seed journeys: insert stop journey_id=%q position=%d: %w", j.JourneyID, pos, err)
			}
		}
		stmt.Close()
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed journeys: commit tx: %w", err)
	}

	return nil
}
