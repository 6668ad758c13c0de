package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/okian/agon/internal/domain/replay"
)

// TimelineDependencies defines the interface for timeline reads.
type TimelineDependencies interface {
	Timeline(ctx context.Context, competitorID, skillKey string) ([]replay.TimelinePoint, error)
}

// TimelineHandler serves per-skill rating trajectories.
type TimelineHandler struct {
	deps TimelineDependencies
}

// NewTimelineHandler creates a new timeline handler.
func NewTimelineHandler(deps TimelineDependencies) *TimelineHandler {
	return &TimelineHandler{deps: deps}
}

// HandleGetTimeline handles GET /timeline/{competitor_id}/{skill_key} requests.
func (h *TimelineHandler) HandleGetTimeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_timeline"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	parts := pathParts(r.URL.Path, "/timeline/")
	if len(parts) != 2 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return
	}
	competitorID, err := url.PathUnescape(parts[0])
	if err != nil || competitorID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return
	}
	skillKey, err := url.PathUnescape(parts[1])
	if err != nil || skillKey == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return
	}

	points, err := h.deps.Timeline(r.Context(), competitorID, skillKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, timelineResponse{
		CompetitorID: competitorID,
		SkillKey:     skillKey,
		Points:       points,
	})
}

type timelineResponse struct {
	CompetitorID string                 `json:"competitor_id"`
	SkillKey     string                 `json:"skill_key"`
	Points       []replay.TimelinePoint `json:"points"`
}
