package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/okian/agon/internal/domain/replay"
)

// AuditDependencies defines the interface for fairness audit reads.
type AuditDependencies interface {
	FairnessAudit(ctx context.Context, competitorID string) ([]replay.AuditRow, error)
}

// AuditHandler serves per-competitor fairness audit reports.
type AuditHandler struct {
	deps AuditDependencies
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(deps AuditDependencies) *AuditHandler {
	return &AuditHandler{deps: deps}
}

// HandleGetAudit handles GET /audit/{competitor_id} requests.
func (h *AuditHandler) HandleGetAudit(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_audit"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	parts := pathParts(r.URL.Path, "/audit/")
	if len(parts) != 1 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return
	}
	competitorID, err := url.PathUnescape(parts[0])
	if err != nil || competitorID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
		return
	}

	rows, err := h.deps.FairnessAudit(r.Context(), competitorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, auditResponse{
		CompetitorID: competitorID,
		Rows:         rows,
	})
}

type auditResponse struct {
	CompetitorID string            `json:"competitor_id"`
	Rows         []replay.AuditRow `json:"rows"`
}
