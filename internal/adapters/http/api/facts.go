// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/agon/internal/domain/dedupe"
	"github.com/okian/agon/internal/domain/model"
)

// FactDependencies defines the interface for fact ingestion dependencies.
type FactDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, fact model.TournamentFact) bool
}

// FactsHandler handles fact ingestion requests.
type FactsHandler struct {
	deps FactDependencies
}

// NewFactsHandler creates a new facts handler.
func NewFactsHandler(deps FactDependencies) *FactsHandler {
	return &FactsHandler{deps: deps}
}

// HandlePostFact handles POST /facts requests.
func (h *FactsHandler) HandlePostFact(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_fact"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req factRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}

	fact := req.toFact()

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), fact.FactID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", FactID: fact.FactID, Duplicate: true})
		return
	}

	// Try to enqueue for async application
	if ok := h.deps.Enqueue(r.Context(), fact); !ok {
		// Roll back the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), fact.FactID)
		writeError(w, http.StatusTooManyRequests, "backpressure", fmt.Errorf("%s: %w", op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", FactID: fact.FactID, Duplicate: false})
}
