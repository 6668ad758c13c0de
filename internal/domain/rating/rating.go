// Package rating implements the pure rating-step mathematics. It depends on
// nothing else in the engine: callers feed it already-estimated factors and
// thread the running value forward themselves.
package rating

import "math"

// Rating domain constants.
const (
	// MinValue is the floor any rating is clamped to after a tournament.
	MinValue = 40.0
	// MaxCap is the hard ceiling on any rating value.
	MaxCap = 99.0
	// DefaultLearningRate anchors the EMA step size at weight 1.0.
	DefaultLearningRate = 0.20

	// Clamp ranges for the externally estimated factors.
	MinOpponentFactor = 0.5
	MaxOpponentFactor = 2.0
	MinPerfModifier   = -1.0
	MaxPerfModifier   = 1.0
)

// StepInput carries one tournament's evidence for one skill. PrevValue
// selects the mode: EMA when set, the legacy convergence path when nil.
type StepInput struct {
	PrevValue      *float64
	Baseline       float64
	Placement      int
	FieldSize      int
	Weight         float64
	OpponentFactor float64
	PerfModifier   float64
	// TournamentCount is consumed by the legacy mode only and must include
	// the tournament being applied.
	TournamentCount int
	// LearningRate falls back to DefaultLearningRate when zero.
	LearningRate float64
}

// Step returns the new rating value for one (tournament, skill) application.
//
// EMA mode: delta = step_size * (placement_skill - prev), scaled
// sign-symmetrically by the performance modifier (good performance amplifies
// gains and softens losses), then asymmetrically by the opponent factor
// (gains multiply, losses divide). Result is clamped to [MinValue, MaxCap]
// and rounded to one decimal so incremental application and full replay land
// on identical bits.
//
// Legacy mode (nil PrevValue): weighted convergence from baseline toward the
// placement skill, retained for histories written under the earliest scheme.
func Step(in StepInput) float64 {
	lr := in.LearningRate
	if lr == 0 {
		lr = DefaultLearningRate
	}
	ps := PlacementSkill(in.Placement, in.FieldSize)

	if in.PrevValue == nil {
		n := float64(in.TournamentCount)
		v := in.Baseline + (ps-in.Baseline)*(n/(n+1))*in.Weight
		return round1(clamp(v))
	}

	prev := *in.PrevValue
	delta := StepSize(lr, in.Weight) * (ps - prev)

	perf := clampRange(in.PerfModifier, MinPerfModifier, MaxPerfModifier)
	if delta >= 0 {
		delta *= 1 + perf
	} else {
		delta *= 1 - perf
	}

	opp := clampRange(in.OpponentFactor, MinOpponentFactor, MaxOpponentFactor)
	if delta >= 0 {
		delta *= opp
	} else {
		delta /= opp
	}

	return round1(clamp(prev + delta))
}

// PlacementSkill maps a placement to the target rating it implies: 100 for
// 1st, MinValue for last, linear in percentile rank between them. A field of
// one always reads as 1st-place evidence.
func PlacementSkill(placement, fieldSize int) float64 {
	var percentile float64
	if fieldSize > 1 {
		percentile = float64(placement-1) / float64(fieldSize-1)
	}
	return 100 - percentile*(100-MinValue)
}

// StepSize is the log-normalized EMA step: learningRate * ln(1+w)/ln(2).
// Weight 1.0 reproduces the learning rate exactly, and the ratio of any two
// weights' step sizes is constant regardless of the current value, which is
// what keeps higher-weighted skills dominant without amplifying at extremes.
func StepSize(learningRate, weight float64) float64 {
	return learningRate * math.Log(1+weight) / math.Ln2
}

// Headroom is the remaining distance from prev to the clamp bound the delta
// is moving toward. Fairness auditing divides deltas by it so clamp-limited
// steps stay comparable.
func Headroom(prev, delta float64) float64 {
	if delta >= 0 {
		return MaxCap - prev
	}
	return prev - MinValue
}

func clamp(v float64) float64 {
	return clampRange(v, MinValue, MaxCap)
}

func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
