// Package performance derives a confidence-weighted match-performance signal
// for one competitor in one tournament, independent of the rating math.
package performance

import (
	"math"

	"github.com/okian/agon/internal/domain/model"
)

// Modifier bounds and defaults.
const (
	MinModifier = -1.0
	MaxModifier = 1.0

	defaultWinRateWeight   = 0.7
	defaultScoreWeight     = 0.3
	defaultConfidenceScale = 5.0
)

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithSignalWeights sets the blend between the win-rate and score signals.
func WithSignalWeights(winRate, score float64) Option {
	return func(e *Estimator) {
		if winRate > 0 && score >= 0 {
			e.winRateWeight = winRate
			e.scoreWeight = score
		}
	}
}

// WithConfidenceScale sets the match count at which confidence reaches
// 1 - 1/e (~0.63).
func WithConfidenceScale(matches float64) Option {
	return func(e *Estimator) {
		if matches > 0 {
			e.confidenceScale = matches
		}
	}
}

// Estimator aggregates a competitor's head-to-head record into a single
// modifier in [MinModifier, MaxModifier].
type Estimator struct {
	winRateWeight   float64
	scoreWeight     float64
	confidenceScale float64
}

// NewEstimator creates an estimator with the default signal blend.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		winRateWeight:   defaultWinRateWeight,
		scoreWeight:     defaultScoreWeight,
		confidenceScale: defaultConfidenceScale,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate returns the confidence-weighted performance modifier, rounded to
// four decimals. Matches that do not list the competitor or carry malformed
// results are skipped silently; zero usable matches returns exactly 0.0.
//
// Draws count toward the match total but not toward wins, so an all-draw
// record reads slightly negative. Historical behavior, kept as-is: recorded
// fairness audits encode it.
func (e *Estimator) Estimate(fact *model.TournamentFact) float64 {
	var wins, total, goalsFor, goalsAgainst int
	for i := range fact.Matches {
		m := &fact.Matches[i]
		if !m.Involves(fact.CompetitorID) || !m.Valid() {
			continue
		}
		total++
		if m.WinnerID == fact.CompetitorID {
			wins++
		}
		if m.HomeID == fact.CompetitorID {
			goalsFor += m.HomeScore
			goalsAgainst += m.AwayScore
		} else {
			goalsFor += m.AwayScore
			goalsAgainst += m.HomeScore
		}
	}
	if total == 0 {
		return 0.0
	}

	winRateSignal := (float64(wins)/float64(total) - 0.5) * 2

	scoreSignal := 0.0
	if goalsFor+goalsAgainst > 0 {
		scoreSignal = float64(goalsFor-goalsAgainst) / float64(goalsFor+goalsAgainst)
	}

	raw := e.winRateWeight*winRateSignal + e.scoreWeight*scoreSignal
	confidence := 1 - math.Exp(-float64(total)/e.confidenceScale)

	modifier := raw * confidence
	modifier = math.Max(MinModifier, math.Min(MaxModifier, modifier))
	return math.Round(modifier*10000) / 10000
}
