package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// DeltaDependencies defines the interface for tournament delta reads.
type DeltaDependencies interface {
	TournamentDelta(ctx context.Context, competitorID, tournamentID string) (map[string]float64, error)
}

// DeltaHandler serves per-tournament rating deltas.
type DeltaHandler struct {
	deps DeltaDependencies
}

// NewDeltaHandler creates a new delta handler.
func NewDeltaHandler(deps DeltaDependencies) *DeltaHandler {
	return &DeltaHandler{deps: deps}
}

// HandleGetDelta handles GET /delta/{competitor_id}/{tournament_id} requests.
// Unknown tournaments yield an empty delta map rather than an error.
func (h *DeltaHandler) HandleGetDelta(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_delta"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	parts := pathParts(r.URL.Path, "/delta/")
	if len(parts) != 2 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return
	}
	competitorID, err := url.PathUnescape(parts[0])
	if err != nil || competitorID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return
	}
	tournamentID, err := url.PathUnescape(parts[1])
	if err != nil || tournamentID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return
	}

	deltas, err := h.deps.TournamentDelta(r.Context(), competitorID, tournamentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, deltaResponse{
		CompetitorID: competitorID,
		TournamentID: tournamentID,
		Deltas:       deltas,
	})
}

type deltaResponse struct {
	CompetitorID string             `json:"competitor_id"`
	TournamentID string             `json:"tournament_id"`
	Deltas       map[string]float64 `json:"deltas"`
}
