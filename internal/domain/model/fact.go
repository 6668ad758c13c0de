// Package model contains domain records passed between layers.
package model

import "time"

// MatchOutcome is one head-to-head result inside a tournament. Both sides are
// listed with their absolute scores; WinnerID is empty for a draw.
type MatchOutcome struct {
	HomeID    string `json:"home_id"`
	AwayID    string `json:"away_id"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	WinnerID  string `json:"winner_id"`
}

// Draw reports whether the match ended without a winner.
func (m *MatchOutcome) Draw() bool { return m.WinnerID == "" }

// Involves reports whether the given competitor is a listed side of the match.
func (m *MatchOutcome) Involves(competitorID string) bool {
	return m.HomeID == competitorID || m.AwayID == competitorID
}

// Valid reports whether the result payload is usable: both sides present,
// non-negative scores, and a winner (if any) that is one of the listed sides.
func (m *MatchOutcome) Valid() bool {
	if m.HomeID == "" || m.AwayID == "" {
		return false
	}
	if m.HomeScore < 0 || m.AwayScore < 0 {
		return false
	}
	if m.WinnerID != "" && m.WinnerID != m.HomeID && m.WinnerID != m.AwayID {
		return false
	}
	return true
}

// TournamentFact is the read-only record the engine consumes for one
// (competitor, tournament) participation. Facts must be supplied in ascending
// OccurredAt order; the engine never re-sorts because timestamp ties have to
// keep their persisted order.
type TournamentFact struct {
	FactID       string               `json:"fact_id"`
	TournamentID string               `json:"tournament_id"`
	CompetitorID string               `json:"competitor_id"`
	OccurredAt   time.Time            `json:"occurred_at"`
	Placement    int                  `json:"placement"` // 1 = best; 0 = unplaced/disqualified
	FieldSize    int                  `json:"field_size"`
	SkillWeights map[string]float64   `json:"skill_weights"` // skill key -> reactivity weight, pre-clamped to [0.1, 5.0]
	Participants []string             `json:"participants"`  // every competitor in the field, including the subject
	Matches      []MatchOutcome       `json:"matches"`
}

// Placed reports whether the fact carries a usable placement. Unplaced facts
// contribute no rating update and are skipped by the replay fold.
func (f *TournamentFact) Placed() bool {
	return f.Placement >= 1 && f.FieldSize >= 1 && f.Placement <= f.FieldSize
}

// SkillBaseline is a per (competitor, skill) assessment snapshot. Immutable
// after creation; it anchors the legacy convergence path and seeds the first
// EMA step.
type SkillBaseline struct {
	SkillKey string  `json:"skill_key"`
	Value    float64 `json:"value"` // [0, 100]
}

// RatingState is the per (competitor, skill) accumulator: the only mutable
// entity the engine produces. Created lazily at baseline, advanced exactly
// once per tournament the skill was mapped in, rolled back only by a full
// replay from baseline.
type RatingState struct {
	SkillKey        string  `json:"skill_key"`
	Value           float64 `json:"value"`
	TournamentCount int     `json:"tournament_count"`
}
