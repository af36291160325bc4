package ports

import (
	"context"
	"errors"
	"journey-route-service/internal/domain"
)

// ErrJourneyNotFound is returned by a JourneyRepository for an unknown journey id.
var ErrJourneyNotFound = errors.New("journey not found")

// Port: a boundary for retrieving the stop records of a stored journey.
type JourneyRepository interface {
	// Retrieve the raw stop records of a journey in travel order.
	ListStopRecords(ctx context.Context, journeyID string) ([]domain.StopRecord, error)
}
