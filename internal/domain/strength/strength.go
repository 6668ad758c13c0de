// Package strength estimates whether a tournament's field was stronger or
// weaker than the competitor.
package strength

import (
	"context"
	"math"

	"github.com/okian/agon/internal/domain/model"
)

// Opponent factor bounds. The factor is intentionally computed from baseline
// data rather than running ratings so it cannot feed back into the value it
// is used to adjust.
const (
	MinFactor     = 0.5
	MaxFactor     = 2.0
	NeutralFactor = 1.0
)

// BaselineAverager supplies a competitor's mean baseline over their full
// assessed skill set. ok is false when no assessment data exists.
type BaselineAverager interface {
	Average(ctx context.Context, competitorID string) (float64, bool)
}

// Estimator computes the opponent-strength factor for one tournament.
type Estimator struct {
	baselines BaselineAverager
}

// NewEstimator creates an estimator over the given baseline source.
func NewEstimator(baselines BaselineAverager) *Estimator {
	return &Estimator{baselines: baselines}
}

// Estimate returns avg(opponent baseline averages) / competitor baseline
// average, clamped to [MinFactor, MaxFactor]. Solo events and fields with no
// resolvable opponent data read as neutral.
func (e *Estimator) Estimate(ctx context.Context, fact *model.TournamentFact) float64 {
	sum := 0.0
	resolved := 0
	seen := make(map[string]struct{}, len(fact.Participants))
	for _, id := range fact.Participants {
		if id == fact.CompetitorID || id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		avg, ok := e.baselines.Average(ctx, id)
		if !ok {
			continue
		}
		sum += avg
		resolved++
	}
	if resolved == 0 {
		return NeutralFactor
	}

	avgOpponent := sum / float64(resolved)
	own, _ := e.baselines.Average(ctx, fact.CompetitorID)
	if own <= 0 {
		return NeutralFactor
	}
	return math.Max(MinFactor, math.Min(MaxFactor, avgOpponent/own))
}
