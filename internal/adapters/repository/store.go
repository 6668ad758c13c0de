// Package repository defines the engine's storage boundary and errors.
package repository

import (
	"context"

	"github.com/okian/agon/internal/domain/model"
)

// Store provides read/write access to tournament facts, assessment baselines,
// and the live rating state. Implementations must hand facts back in the
// exact append order: the replay engine trusts chronology and never re-sorts.
type Store interface {
	// AppendFact stores a fact at the end of the competitor's history.
	// Returns ErrOutOfOrder if the fact predates the competitor's latest
	// fact; equal timestamps keep their arrival order.
	AppendFact(ctx context.Context, fact model.TournamentFact) error

	// Facts returns the competitor's facts in ascending chronological order.
	// A competitor with no history yields an empty slice, not an error.
	Facts(ctx context.Context, competitorID string) ([]model.TournamentFact, error)

	// SeedBaselines replaces a competitor's assessment snapshot.
	SeedBaselines(ctx context.Context, competitorID string, baselines []model.SkillBaseline) error

	// Baselines implements baseline.Source.
	Baselines(ctx context.Context, competitorID string) (map[string]float64, bool)

	// SetRatingState upserts the live accumulator for one skill.
	SetRatingState(ctx context.Context, competitorID string, state model.RatingState) error

	// RatingStates returns the live accumulators keyed by skill.
	RatingStates(ctx context.Context, competitorID string) (map[string]model.RatingState, error)

	// LoadRecords seeds rating state from persisted skill rows, migrating
	// legacy-format rows to the canonical shape once on load.
	LoadRecords(ctx context.Context, competitorID string, records []model.SkillRecord) error

	// Competitors returns the number of competitors with any stored data.
	Competitors(ctx context.Context) int

	// FactCount returns the total number of stored facts.
	FactCount(ctx context.Context) int
}
