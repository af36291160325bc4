package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"journey-route-service/internal/api/dto"
	"journey-route-service/internal/platform/obs"
	"journey-route-service/internal/services"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

const maxRouteBody = 1 << 20

// RouteHandler resolves ad-hoc stop lists posted by callers.
type RouteHandler struct {
	Sessions *services.SessionRegistry
}

// Resolve segments and aggregates the posted stops. Requests that share a session_id
// supersede each other; the replaced request answers 409.
func (h *RouteHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRouteBody))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	orch := h.Sessions.Orchestrator(strings.TrimSpace(req.SessionID))
	journey, err := orch.ResolveRecords(r.Context(), req.Stops)
	if err != nil {
		writeResolveError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewJourneyResponse(journey, req.DepartAt))
}

// writeResolveError maps orchestrator failures onto HTTP statuses.
func writeResolveError(w http.ResponseWriter, r *http.Request, err error) {
	var inputErr *services.InputError

	switch {
	case errors.As(err, &inputErr):
		writeError(w, r, http.StatusUnprocessableEntity, inputErr.Error())
	case errors.Is(err, services.ErrSuperseded):
		writeError(w, r, http.StatusConflict, err.Error())
	case r.Context().Err() != nil:
		// client went away; nobody reads the body
		log.Debug().Str("req_id", obs.RequestID(r.Context())).Err(err).Msg("resolve abandoned")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "routing provider did not answer in time")
	default:
		log.Error().Str("req_id", obs.RequestID(r.Context())).Err(err).Msg("resolve failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
