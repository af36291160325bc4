package handlers

import (
	"errors"
	"journey-route-service/internal/api/dto"
	"journey-route-service/internal/platform/obs"
	"journey-route-service/internal/ports"
	"journey-route-service/internal/services"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

// JourneyHandler resolves journeys stored in the repository.
type JourneyHandler struct {
	Sessions *services.SessionRegistry
	Repo     ports.JourneyRepository
}

func (h *JourneyHandler) Route(w http.ResponseWriter, r *http.Request) {
	if h.Repo == nil {
		writeError(w, r, http.StatusServiceUnavailable, "journey storage is not configured")
		return
	}

	id := strings.TrimSpace(httprouter.ParamsFromContext(r.Context()).ByName("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "journey id is required")
		return
	}

	q := r.URL.Query()

	var departAt *time.Time
	if v := strings.TrimSpace(q.Get("depart_at")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "depart_at must be RFC3339")
			return
		}
		departAt = &t
	}

	records, err := h.Repo.ListStopRecords(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrJourneyNotFound) {
			writeError(w, r, http.StatusNotFound, "journey not found")
			return
		}
		log.Error().Str("req_id", obs.RequestID(r.Context())).Str("journey_id", id).Err(err).Msg("load journey failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	orch := h.Sessions.Orchestrator(strings.TrimSpace(q.Get("session_id")))
	journey, err := orch.ResolveRecords(r.Context(), records)
	if err != nil {
		writeResolveError(w, r, err)
		return
	}

	res := dto.NewJourneyResponse(journey, departAt)
	res.JourneyID = id
	writeJSON(w, r, http.StatusOK, res)
}
