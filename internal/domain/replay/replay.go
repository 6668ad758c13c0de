// Package replay folds a competitor's chronological tournament history
// through the rating step function to produce current values, per-tournament
// deltas, timelines, and fairness-audit rows.
//
// The fold is deterministic: the same ordered fact sequence from the same
// baselines always lands on bit-identical values, which is what lets a full
// replay stand in for (and audit) the incrementally maintained state.
package replay

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/okian/agon/internal/domain/baseline"
	"github.com/okian/agon/internal/domain/model"
	"github.com/okian/agon/internal/domain/performance"
	"github.com/okian/agon/internal/domain/rating"
	"github.com/okian/agon/internal/domain/strength"
)

// FactSource supplies a competitor's tournament facts in ascending
// chronological order. The engine trusts the ordering: timestamp ties must
// keep their persisted order, so it never re-sorts.
type FactSource interface {
	Facts(ctx context.Context, competitorID string) ([]model.TournamentFact, error)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLearningRate overrides the EMA learning rate.
func WithLearningRate(lr float64) Option {
	return func(e *Engine) {
		if lr > 0 {
			e.learningRate = lr
		}
	}
}

// WithPerformanceEstimator swaps the match-performance estimator.
func WithPerformanceEstimator(est *performance.Estimator) Option {
	return func(e *Engine) {
		if est != nil {
			e.performance = est
		}
	}
}

// WithStrengthEstimator swaps the opponent-strength estimator.
func WithStrengthEstimator(est *strength.Estimator) Option {
	return func(e *Engine) {
		if est != nil {
			e.strength = est
		}
	}
}

// Engine replays tournament histories. It is pure compute: no I/O beyond the
// injected sources, no internal concurrency, safe for parallel use across
// different competitors.
type Engine struct {
	facts        FactSource
	baselines    *baseline.Resolver
	strength     *strength.Estimator
	performance  *performance.Estimator
	learningRate float64
}

// NewEngine creates a replay engine over the given fact and baseline sources.
func NewEngine(facts FactSource, baselines *baseline.Resolver, opts ...Option) *Engine {
	e := &Engine{
		facts:        facts,
		baselines:    baselines,
		strength:     strength.NewEstimator(baselines),
		performance:  performance.NewEstimator(),
		learningRate: rating.DefaultLearningRate,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SkillSummary is one profile row.
type SkillSummary struct {
	Baseline        float64     `json:"baseline"`
	CurrentLevel    float64     `json:"current_level"`
	TotalDelta      float64     `json:"total_delta"`
	TournamentCount int         `json:"tournament_count"`
	Tier            rating.Tier `json:"tier"`
}

// Profile is the per-competitor skill view plus the cross-skill average.
type Profile struct {
	Skills  map[string]SkillSummary `json:"skills"`
	Average float64                 `json:"average"`
}

// TimelinePoint is one tournament's snapshot in a single skill's history.
type TimelinePoint struct {
	TournamentID      string    `json:"tournament_id"`
	OccurredAt        time.Time `json:"occurred_at"`
	Placement         int       `json:"placement"`
	FieldSize         int       `json:"field_size"`
	PlacementSkill    float64   `json:"placement_skill"`
	Weight            float64   `json:"weight"`
	Value             float64   `json:"value"`
	DeltaFromBaseline float64   `json:"delta_from_baseline"`
	DeltaFromPrevious float64   `json:"delta_from_previous"`
}

// AuditRow is one (tournament, skill) fairness-audit entry. NormalizedDelta
// divides the applied delta by the headroom toward the relevant clamp bound
// so clamp-limited steps stay comparable across skills.
type AuditRow struct {
	TournamentID    string  `json:"tournament_id"`
	SkillKey        string  `json:"skill_key"`
	Weight          float64 `json:"weight"`
	AvgWeight       float64 `json:"avg_weight"`
	Dominant        bool    `json:"dominant"`
	Delta           float64 `json:"delta"`
	NormalizedDelta float64 `json:"normalized_delta"`
	FairnessOK      bool    `json:"fairness_ok"`
}

// stepTrace records one applied (tournament, skill) step of a fold.
type stepTrace struct {
	factIndex      int
	tournamentID   string
	occurredAt     time.Time
	placement      int
	fieldSize      int
	skillKey       string
	weight         float64
	prev           float64
	next           float64
	placementSkill float64
}

// foldResult accumulates the outcome of one replay pass.
type foldResult struct {
	states    map[string]*model.RatingState
	baselines map[string]float64
	steps     []stepTrace
}

const headroomEpsilon = 1e-9

// fold replays the competitor's history from baseline. When upToTournament is
// non-empty the fold stops after that tournament has been applied. Facts with
// no resolvable placement or no mapped skills contribute nothing and are
// skipped silently.
func (e *Engine) fold(ctx context.Context, competitorID, upToTournament string) (*foldResult, error) {
	facts, err := e.facts.Facts(ctx, competitorID)
	if err != nil {
		return nil, fmt.Errorf("fetching facts for %s: %w", competitorID, err)
	}

	res := &foldResult{
		states:    make(map[string]*model.RatingState),
		baselines: make(map[string]float64),
	}
	for i := range facts {
		fact := &facts[i]
		if fact.Placed() && len(fact.SkillWeights) > 0 {
			e.applyFact(ctx, res, i, fact)
		}
		if upToTournament != "" && fact.TournamentID == upToTournament {
			break
		}
	}
	return res, nil
}

// applyFact advances every mapped skill by one step. Opponent and performance
// factors are computed once per tournament and shared across its skills.
// Skills iterate in sorted key order so output ordering is reproducible.
func (e *Engine) applyFact(ctx context.Context, res *foldResult, factIndex int, fact *model.TournamentFact) {
	opponentFactor := e.strength.Estimate(ctx, fact)
	perfModifier := e.performance.Estimate(fact)

	for _, skillKey := range sortedKeys(fact.SkillWeights) {
		weight := fact.SkillWeights[skillKey]
		state := e.stateFor(ctx, res, fact.CompetitorID, skillKey)

		prev := state.Value
		next := rating.Step(rating.StepInput{
			PrevValue:      &prev,
			Baseline:       res.baselines[skillKey],
			Placement:      fact.Placement,
			FieldSize:      fact.FieldSize,
			Weight:         weight,
			OpponentFactor: opponentFactor,
			PerfModifier:   perfModifier,
			LearningRate:   e.learningRate,
		})
		state.Value = next
		state.TournamentCount++

		res.steps = append(res.steps, stepTrace{
			factIndex:      factIndex,
			tournamentID:   fact.TournamentID,
			occurredAt:     fact.OccurredAt,
			placement:      fact.Placement,
			fieldSize:      fact.FieldSize,
			skillKey:       skillKey,
			weight:         weight,
			prev:           prev,
			next:           next,
			placementSkill: rating.PlacementSkill(fact.Placement, fact.FieldSize),
		})
	}
}

// stateFor lazily creates a skill's accumulator at its baseline value.
func (e *Engine) stateFor(ctx context.Context, res *foldResult, competitorID, skillKey string) *model.RatingState {
	if st, ok := res.states[skillKey]; ok {
		return st
	}
	b, _ := e.baselines.Value(ctx, competitorID, skillKey)
	res.baselines[skillKey] = b
	st := &model.RatingState{SkillKey: skillKey, Value: b}
	res.states[skillKey] = st
	return st
}

// SkillProfile replays the full history and returns the current per-skill
// view. Extra skill keys may be requested; unknown ones come back as neutral
// baseline rows rather than errors.
func (e *Engine) SkillProfile(ctx context.Context, competitorID string, skillKeys ...string) (Profile, error) {
	res, err := e.fold(ctx, competitorID, "")
	if err != nil {
		return Profile{}, err
	}

	skills := make(map[string]SkillSummary, len(res.states)+len(skillKeys))
	for key, st := range res.states {
		b := res.baselines[key]
		skills[key] = SkillSummary{
			Baseline:        b,
			CurrentLevel:    st.Value,
			TotalDelta:      round1(st.Value - b),
			TournamentCount: st.TournamentCount,
			Tier:            rating.TierFor(st.Value),
		}
	}
	for _, key := range skillKeys {
		if _, ok := skills[key]; ok {
			continue
		}
		b, _ := e.baselines.Value(ctx, competitorID, key)
		skills[key] = SkillSummary{
			Baseline:     b,
			CurrentLevel: b,
			Tier:         rating.TierFor(b),
		}
	}

	avg := 0.0
	if len(skills) > 0 {
		for _, s := range skills {
			avg += s.CurrentLevel
		}
		avg = round1(avg / float64(len(skills)))
	}
	return Profile{Skills: skills, Average: avg}, nil
}

// TournamentDelta replays up to and including the target tournament and
// returns the isolated per-skill delta it produced. This is the canonical
// write-once value persisted against the participation record; an unknown or
// unplaced tournament yields an empty map, not an error.
func (e *Engine) TournamentDelta(ctx context.Context, competitorID, tournamentID string) (map[string]float64, error) {
	res, err := e.fold(ctx, competitorID, tournamentID)
	if err != nil {
		return nil, err
	}
	deltas := make(map[string]float64)
	for i := range res.steps {
		st := &res.steps[i]
		if st.tournamentID == tournamentID {
			deltas[st.skillKey] = round1(st.next - st.prev)
		}
	}
	return deltas, nil
}

// SkillTimeline replays the full history and returns the step-by-step
// snapshots for one skill, in tournament order.
func (e *Engine) SkillTimeline(ctx context.Context, competitorID, skillKey string) ([]TimelinePoint, error) {
	res, err := e.fold(ctx, competitorID, "")
	if err != nil {
		return nil, err
	}
	b, ok := res.baselines[skillKey]
	if !ok {
		b, _ = e.baselines.Value(ctx, competitorID, skillKey)
	}

	points := make([]TimelinePoint, 0)
	for i := range res.steps {
		st := &res.steps[i]
		if st.skillKey != skillKey {
			continue
		}
		points = append(points, TimelinePoint{
			TournamentID:      st.tournamentID,
			OccurredAt:        st.occurredAt,
			Placement:         st.placement,
			FieldSize:         st.fieldSize,
			PlacementSkill:    st.placementSkill,
			Weight:            st.weight,
			Value:             st.next,
			DeltaFromBaseline: round1(st.next - b),
			DeltaFromPrevious: round1(st.next - st.prev),
		})
	}
	return points, nil
}

// FairnessAudit replays the full history and returns one row per applied
// (tournament, skill) step. The dominant-weighted skill in each tournament is
// flagged, and its fairness_ok turns false if any strictly-lower-weighted
// peer in the same tournament moved further in normalized terms.
func (e *Engine) FairnessAudit(ctx context.Context, competitorID string) ([]AuditRow, error) {
	res, err := e.fold(ctx, competitorID, "")
	if err != nil {
		return nil, err
	}

	rows := make([]AuditRow, 0, len(res.steps))
	for start := 0; start < len(res.steps); {
		end := start
		for end < len(res.steps) && res.steps[end].factIndex == res.steps[start].factIndex {
			end++
		}
		rows = append(rows, e.auditTournament(res.steps[start:end])...)
		start = end
	}
	return rows, nil
}

// auditTournament builds the audit rows for one tournament's steps.
func (e *Engine) auditTournament(steps []stepTrace) []AuditRow {
	sumWeight := 0.0
	maxWeight := 0.0
	for i := range steps {
		sumWeight += steps[i].weight
		maxWeight = math.Max(maxWeight, steps[i].weight)
	}
	avgWeight := sumWeight / float64(len(steps))

	norms := make([]float64, len(steps))
	for i := range steps {
		st := &steps[i]
		delta := st.next - st.prev
		headroom := rating.Headroom(st.prev, delta)
		if headroom > headroomEpsilon {
			norms[i] = delta / headroom
		}
	}

	rows := make([]AuditRow, 0, len(steps))
	for i := range steps {
		st := &steps[i]
		dominant := st.weight == maxWeight
		ok := true
		if dominant {
			for j := range steps {
				if steps[j].weight < st.weight && math.Abs(norms[j]) > math.Abs(norms[i])+headroomEpsilon {
					ok = false
					break
				}
			}
		}
		rows = append(rows, AuditRow{
			TournamentID:    st.tournamentID,
			SkillKey:        st.skillKey,
			Weight:          st.weight,
			AvgWeight:       avgWeight,
			Dominant:        dominant,
			Delta:           round1(st.next - st.prev),
			NormalizedDelta: norms[i],
			FairnessOK:      ok,
		})
	}
	return rows
}

// CurrentStates replays the full history and returns the raw accumulators,
// keyed by skill. Used by callers that persist RatingState directly.
func (e *Engine) CurrentStates(ctx context.Context, competitorID string) (map[string]model.RatingState, error) {
	res, err := e.fold(ctx, competitorID, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.RatingState, len(res.states))
	for key, st := range res.states {
		out[key] = *st
	}
	return out, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
