package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"journey-route-service/internal/domain"
	"journey-route-service/internal/platform/obs"
	"journey-route-service/internal/ports"
)

// Postgres-backed implementation of the JourneyRepository port.
// Stop records are stored as the JSON the caller sent, so every accepted shape
// round-trips through the normalizer unchanged.
type PostgresJourneyRepository struct{ DB *sql.DB }

func NewPostgresJourneyRepository(db *sql.DB) *PostgresJourneyRepository {
	return &PostgresJourneyRepository{DB: db}
}

// Return the stop records of a journey ordered by position.
func (s *PostgresJourneyRepository) ListStopRecords(
	ctx context.Context,
	journeyID string,
) (_ []domain.StopRecord, err error) {
	defer obs.Time(ctx, "journeys.ListStopRecords")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres journey repository: DB is nil")
	}

	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM journeys WHERE journey_id = $1);`,
		journeyID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("list stop records: query journeys table: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("list stop records %q: %w", journeyID, ports.ErrJourneyNotFound)
	}

	query := `
	SELECT
		record
	FROM journey_stops
	WHERE journey_id = $1
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, query, journeyID)
	if err != nil {
		return nil, fmt.Errorf("list stop records: query journey_stops table: %w", err)
	}
	defer rows.Close()

	records := make([]domain.StopRecord, 0, 16)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("list stop records: scan row: %w", err)
		}

		var r domain.StopRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("list stop records: decode record: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stop records: row iteration: %w", err)
	}

	return records, nil
}
