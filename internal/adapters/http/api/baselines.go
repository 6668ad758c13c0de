package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/agon/internal/domain/model"
)

// BaselineDependencies defines the interface for baseline seeding.
type BaselineDependencies interface {
	SeedBaselines(ctx context.Context, competitorID string, baselines []model.SkillBaseline) error
}

// BaselinesHandler handles assessment baseline seeding.
type BaselinesHandler struct {
	deps BaselineDependencies
}

// NewBaselinesHandler creates a new baselines handler.
func NewBaselinesHandler(deps BaselineDependencies) *BaselinesHandler {
	return &BaselinesHandler{deps: deps}
}

type baselinesRequest struct {
	CompetitorID string                `json:"competitor_id"`
	Baselines    []model.SkillBaseline `json:"baselines"`
}

func (b baselinesRequest) validate() error {
	if strings.TrimSpace(b.CompetitorID) == "" {
		return errors.New("missing competitor_id")
	}
	if len(b.Baselines) == 0 {
		return errors.New("missing baselines")
	}
	for _, sb := range b.Baselines {
		if strings.TrimSpace(sb.SkillKey) == "" {
			return errors.New("baseline missing skill_key")
		}
		if sb.Value < 0 || sb.Value > 100 {
			return fmt.Errorf("baseline for %s out of [0, 100]", sb.SkillKey)
		}
	}
	return nil
}

// HandlePostBaselines handles POST /baselines requests.
func (h *BaselinesHandler) HandlePostBaselines(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_baselines"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req baselinesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	if err := h.deps.SeedBaselines(r.Context(), req.CompetitorID, req.Baselines); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "seeded"})
}
