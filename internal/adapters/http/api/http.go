// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/agon/internal/domain/dedupe"
	"github.com/okian/agon/internal/domain/model"
	"github.com/okian/agon/internal/domain/replay"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a fact for async application. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, fact model.TournamentFact) bool

	// SeedBaselines installs a competitor's assessment snapshot.
	SeedBaselines(ctx context.Context, competitorID string, baselines []model.SkillBaseline) error

	// Read operations backed by history replay.
	Profile(ctx context.Context, competitorID string, skillKeys ...string) (replay.Profile, error)
	TournamentDelta(ctx context.Context, competitorID, tournamentID string) (map[string]float64, error)
	Timeline(ctx context.Context, competitorID, skillKey string) ([]replay.TimelinePoint, error)
	FairnessAudit(ctx context.Context, competitorID string) ([]replay.AuditRow, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	factsHandler     *FactsHandler
	baselinesHandler *BaselinesHandler
	profileHandler   *ProfileHandler
	timelineHandler  *TimelineHandler
	auditHandler     *AuditHandler
	deltaHandler     *DeltaHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		factsHandler:     NewFactsHandler(deps),
		baselinesHandler: NewBaselinesHandler(deps),
		profileHandler:   NewProfileHandler(deps),
		timelineHandler:  NewTimelineHandler(deps),
		auditHandler:     NewAuditHandler(deps),
		deltaHandler:     NewDeltaHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/facts", MetricsMiddleware(s.factsHandler.HandlePostFact, "facts"))
	mux.HandleFunc("/baselines", MetricsMiddleware(s.baselinesHandler.HandlePostBaselines, "baselines"))
	mux.HandleFunc("/profile/", MetricsMiddleware(s.profileHandler.HandleGetProfile, "profile"))
	mux.HandleFunc("/timeline/", MetricsMiddleware(s.timelineHandler.HandleGetTimeline, "timeline"))
	mux.HandleFunc("/audit/", MetricsMiddleware(s.auditHandler.HandleGetAudit, "audit"))
	mux.HandleFunc("/delta/", MetricsMiddleware(s.deltaHandler.HandleGetDelta, "delta"))
}

// factRequest mirrors the wire schema for POST /facts.
type factRequest struct {
	FactID       string               `json:"fact_id"`
	TournamentID string               `json:"tournament_id"`
	CompetitorID string               `json:"competitor_id"`
	OccurredAt   string               `json:"occurred_at"`
	Placement    int                  `json:"placement"`
	FieldSize    int                  `json:"field_size"`
	SkillWeights map[string]float64   `json:"skill_weights"`
	Participants []string             `json:"participants"`
	Matches      []model.MatchOutcome `json:"matches"`
}

func (f factRequest) validate() error {
	switch {
	case strings.TrimSpace(f.TournamentID) == "":
		return errors.New("missing tournament_id")
	case strings.TrimSpace(f.CompetitorID) == "":
		return errors.New("missing competitor_id")
	case strings.TrimSpace(f.OccurredAt) == "":
		return errors.New("missing occurred_at")
	case f.Placement < 0:
		return errors.New("placement must be >= 0")
	case f.FieldSize < 0:
		return errors.New("field_size must be >= 0")
	}
	if _, err := time.Parse(time.RFC3339, f.OccurredAt); err != nil {
		return errors.New("invalid occurred_at; must be RFC3339")
	}
	return nil
}

// toFact converts a validated request to the domain record, assigning a fact
// ID when the caller did not supply one.
func (f factRequest) toFact() model.TournamentFact {
	id := strings.TrimSpace(f.FactID)
	if id == "" {
		id = uuid.NewString()
	}
	ts, _ := time.Parse(time.RFC3339, f.OccurredAt)
	return model.TournamentFact{
		FactID:       id,
		TournamentID: f.TournamentID,
		CompetitorID: f.CompetitorID,
		OccurredAt:   ts,
		Placement:    f.Placement,
		FieldSize:    f.FieldSize,
		SkillWeights: f.SkillWeights,
		Participants: f.Participants,
		Matches:      f.Matches,
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	FactID    string `json:"fact_id,omitempty"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// pathParts splits the path remainder after a route prefix into its segments.
func pathParts(path, prefix string) []string {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}
