package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/okian/agon/internal/domain/replay"
)

// ProfileDependencies defines the interface for profile reads.
type ProfileDependencies interface {
	Profile(ctx context.Context, competitorID string, skillKeys ...string) (replay.Profile, error)
}

// ProfileHandler serves per-competitor skill profiles.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

// HandleGetProfile handles GET /profile/{competitor_id} requests. Extra skill
// keys can be requested via repeated ?skill= query parameters; competitors
// with no history for them get a neutral baseline row.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_profile"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	parts := pathParts(r.URL.Path, "/profile/")
	if len(parts) != 1 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return
	}
	competitorID, err := url.PathUnescape(parts[0])
	if err != nil || competitorID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return
	}
	extra := r.URL.Query()["skill"]

	profile, err := h.deps.Profile(r.Context(), competitorID, extra...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		CompetitorID: competitorID,
		Skills:       profile.Skills,
		Average:      profile.Average,
	})
}

type profileResponse struct {
	CompetitorID string                         `json:"competitor_id"`
	Skills       map[string]replay.SkillSummary `json:"skills"`
	Average      float64                        `json:"average"`
}
