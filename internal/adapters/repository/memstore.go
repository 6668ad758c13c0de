package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/agon/internal/domain/model"
	"github.com/okian/agon/pkg/metrics"
)

// competitorData groups everything stored for one competitor.
type competitorData struct {
	facts     []model.TournamentFact
	baselines map[string]float64
	states    map[string]model.RatingState
}

// MemStore implements Store with plain maps behind one RWMutex. The engine's
// load profile is read-heavy replays over short per-competitor histories, so
// a single lock is enough.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]*competitorData

	factCount int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(_ context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		data: make(map[string]*competitorData),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AppendFact stores a fact at the end of the competitor's history.
func (s *MemStore) AppendFact(_ context.Context, fact model.TournamentFact) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if fact.CompetitorID == "" || fact.TournamentID == "" {
		return ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cd := s.competitor(fact.CompetitorID)
	if n := len(cd.facts); n > 0 && fact.OccurredAt.Before(cd.facts[n-1].OccurredAt) {
		// Ordering is a caller contract; fail loudly instead of re-sorting,
		// since timestamp ties must keep their persisted order.
		return fmt.Errorf("%w: %s at %s", ErrOutOfOrder, fact.TournamentID, fact.OccurredAt)
	}
	cd.facts = append(cd.facts, fact)
	s.factCount++
	metrics.UpdateTotalCompetitors(len(s.data))
	return nil
}

// Facts returns the competitor's facts in ascending chronological order.
func (s *MemStore) Facts(_ context.Context, competitorID string) ([]model.TournamentFact, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	cd, ok := s.data[competitorID]
	if !ok {
		return []model.TournamentFact{}, nil
	}
	out := make([]model.TournamentFact, len(cd.facts))
	copy(out, cd.facts)
	return out, nil
}

// SeedBaselines replaces a competitor's assessment snapshot.
func (s *MemStore) SeedBaselines(_ context.Context, competitorID string, baselines []model.SkillBaseline) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cd := s.competitor(competitorID)
	cd.baselines = make(map[string]float64, len(baselines))
	for _, b := range baselines {
		cd.baselines[b.SkillKey] = b.Value
	}
	metrics.UpdateTotalCompetitors(len(s.data))
	return nil
}

// Baselines implements baseline.Source.
func (s *MemStore) Baselines(_ context.Context, competitorID string) (map[string]float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cd, ok := s.data[competitorID]
	if !ok || len(cd.baselines) == 0 {
		return nil, false
	}
	out := make(map[string]float64, len(cd.baselines))
	for k, v := range cd.baselines {
		out[k] = v
	}
	return out, true
}

// SetRatingState upserts the live accumulator for one skill.
func (s *MemStore) SetRatingState(_ context.Context, competitorID string, state model.RatingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cd := s.competitor(competitorID)
	cd.states[state.SkillKey] = state
	return nil
}

// RatingStates returns the live accumulators keyed by skill.
func (s *MemStore) RatingStates(_ context.Context, competitorID string) (map[string]model.RatingState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cd, ok := s.data[competitorID]
	if !ok {
		return map[string]model.RatingState{}, nil
	}
	out := make(map[string]model.RatingState, len(cd.states))
	for k, v := range cd.states {
		out[k] = v
	}
	return out, nil
}

// LoadRecords seeds rating state from persisted skill rows. Legacy rows are
// migrated to the canonical shape here, once, instead of being shape-sniffed
// on every read.
func (s *MemStore) LoadRecords(_ context.Context, competitorID string, records []model.SkillRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cd := s.competitor(competitorID)
	for _, rec := range records {
		cur, err := rec.Migrate()
		if err != nil {
			return fmt.Errorf("migrating record for %s: %w", competitorID, err)
		}
		cd.states[cur.SkillKey] = model.RatingState{
			SkillKey:        cur.SkillKey,
			Value:           cur.Value,
			TournamentCount: cur.TournamentCount,
		}
	}
	return nil
}

// Competitors returns the number of competitors with any stored data.
func (s *MemStore) Competitors(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// FactCount returns the total number of stored facts.
func (s *MemStore) FactCount(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.factCount
}

// competitor returns the bucket for id, creating it if needed.
// Must be called with s.mu held for writing.
func (s *MemStore) competitor(id string) *competitorData {
	cd, ok := s.data[id]
	if !ok {
		cd = &competitorData{
			baselines: make(map[string]float64),
			states:    make(map[string]model.RatingState),
		}
		s.data[id] = cd
	}
	return cd
}
