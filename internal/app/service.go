// Package service wires the skill progression engine together and implements
// the dependencies required by the HTTP API: fact ingestion on the write
// side, replay-backed views on the read side.
package service

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/okian/agon/internal/adapters/mq/queue"
	"github.com/okian/agon/internal/adapters/mq/worker"
	"github.com/okian/agon/internal/adapters/repository"
	"github.com/okian/agon/internal/domain/baseline"
	"github.com/okian/agon/internal/domain/dedupe"
	"github.com/okian/agon/internal/domain/model"
	"github.com/okian/agon/internal/domain/performance"
	"github.com/okian/agon/internal/domain/rating"
	"github.com/okian/agon/internal/domain/replay"
	"github.com/okian/agon/internal/domain/strength"
	"github.com/okian/agon/internal/domain/weights"
	"github.com/okian/agon/pkg/logger"
	"github.com/okian/agon/pkg/metrics"
)

// Service implements the API dependencies for the skill progression system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       *repository.MemStore
	deduper     dedupe.Deduper
	factQueue   queue.Queue
	resolver    *baseline.Resolver
	strengthEst *strength.Estimator
	perfEst     *performance.Estimator
	engine      *replay.Engine
	pool        *worker.Pool

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	learningRate     float64
	defaultBaseline  float64
	presetReactivity map[string]float64

	// Per-competitor write serialization. Applying two facts for the same
	// competitor concurrently would race on prev_value and corrupt the EMA.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of fact-apply workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the fact queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLearningRate sets the EMA learning rate.
func WithLearningRate(lr float64) Option {
	return func(s *Service) {
		if lr > 0 {
			s.learningRate = lr
		}
	}
}

// WithDefaultBaseline sets the neutral baseline for unassessed skills.
func WithDefaultBaseline(v float64) Option {
	return func(s *Service) {
		if v > 0 {
			s.defaultBaseline = v
		}
	}
}

// WithPresetWeights installs fractional preset weights. They are converted to
// reactivity multipliers (fraction over mean, clamped) once, here, and used
// for facts that arrive without their own skill mapping.
func WithPresetWeights(fractional map[string]float64) Option {
	return func(s *Service) {
		if len(fractional) > 0 {
			s.presetReactivity = weights.FromFractional(fractional)
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU() * 2,
		queueSize:       100000,
		dedupeSize:      50000,
		learningRate:    rating.DefaultLearningRate,
		defaultBaseline: baseline.DefaultValue,
		locks:           make(map[string]*sync.Mutex),
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting skill progression service...")

	s.store = repository.NewMemStore(ctx)
	s.resolver = baseline.NewResolver(s.store, baseline.WithDefaultValue(s.defaultBaseline))
	s.strengthEst = strength.NewEstimator(s.resolver)
	s.perfEst = performance.NewEstimator()
	s.engine = replay.NewEngine(s.store, s.resolver,
		replay.WithLearningRate(s.learningRate),
		replay.WithStrengthEstimator(s.strengthEst),
		replay.WithPerformanceEstimator(s.perfEst),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.factQueue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
	)
	s.pool = worker.NewPool(s.workerCount, s.factQueue, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "skill progression service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Float64("learningRate", s.learningRate),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping skill progression service...")

	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "skill progression service stopped")
}

// SeenAndRecord atomically checks if a fact id was seen and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordFactDuplicate()
	}
	return seen
}

// Unrecord removes a fact ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a fact for asynchronous application. Weights are resolved
// here, before queueing, so stored facts always carry final reactivity
// multipliers: directly supplied mappings are clamped, facts without a
// mapping fall back to the configured preset.
func (s *Service) Enqueue(ctx context.Context, fact model.TournamentFact) bool {
	if len(fact.SkillWeights) > 0 {
		fact.SkillWeights = weights.ClampAll(fact.SkillWeights)
	} else if len(s.presetReactivity) > 0 {
		mapped := make(map[string]float64, len(s.presetReactivity))
		for k, v := range s.presetReactivity {
			mapped[k] = v
		}
		fact.SkillWeights = mapped
	}

	s.logger.Debug(ctx, "enqueueing fact",
		logger.String("factID", fact.FactID),
		logger.String("competitorID", fact.CompetitorID),
		logger.String("tournamentID", fact.TournamentID),
	)
	return s.factQueue.Enqueue(ctx, fact)
}

// ApplyFact advances the live rating state by one tournament fact. It is the
// worker-side counterpart of a replay step and must land on the same bits:
// same estimators, same step function, same rounding.
func (s *Service) ApplyFact(ctx context.Context, fact model.TournamentFact) error {
	lock := s.competitorLock(fact.CompetitorID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.AppendFact(ctx, fact); err != nil {
		return err
	}

	if !fact.Placed() || len(fact.SkillWeights) == 0 {
		// Stored for the audit trail, but contributes no rating update.
		metrics.RecordFactSkipped()
		return nil
	}

	opponentFactor := s.strengthEst.Estimate(ctx, &fact)
	perfModifier := s.perfEst.Estimate(&fact)

	states, err := s.store.RatingStates(ctx, fact.CompetitorID)
	if err != nil {
		return err
	}

	for _, skillKey := range sortedKeys(fact.SkillWeights) {
		st, ok := states[skillKey]
		if !ok {
			b, _ := s.resolver.Value(ctx, fact.CompetitorID, skillKey)
			st = model.RatingState{SkillKey: skillKey, Value: b}
		}
		prev := st.Value
		st.Value = rating.Step(rating.StepInput{
			PrevValue:      &prev,
			Placement:      fact.Placement,
			FieldSize:      fact.FieldSize,
			Weight:         fact.SkillWeights[skillKey],
			OpponentFactor: opponentFactor,
			PerfModifier:   perfModifier,
			LearningRate:   s.learningRate,
		})
		st.TournamentCount++
		states[skillKey] = st
		if err := s.store.SetRatingState(ctx, fact.CompetitorID, st); err != nil {
			return err
		}
		metrics.RecordRatingUpdate()
	}
	return nil
}

// SeedBaselines installs a competitor's assessment snapshot.
func (s *Service) SeedBaselines(ctx context.Context, competitorID string, baselines []model.SkillBaseline) error {
	return s.store.SeedBaselines(ctx, competitorID, baselines)
}

// Profile replays the full history and returns the current skill view.
func (s *Service) Profile(ctx context.Context, competitorID string, skillKeys ...string) (replay.Profile, error) {
	defer replayTimer("profile")()
	return s.engine.SkillProfile(ctx, competitorID, skillKeys...)
}

// TournamentDelta returns the isolated per-skill delta of one tournament.
func (s *Service) TournamentDelta(ctx context.Context, competitorID, tournamentID string) (map[string]float64, error) {
	defer replayTimer("delta")()
	return s.engine.TournamentDelta(ctx, competitorID, tournamentID)
}

// Timeline returns the step-by-step history for one skill.
func (s *Service) Timeline(ctx context.Context, competitorID, skillKey string) ([]replay.TimelinePoint, error) {
	defer replayTimer("timeline")()
	return s.engine.SkillTimeline(ctx, competitorID, skillKey)
}

// FairnessAudit returns per-(tournament, skill) audit rows.
func (s *Service) FairnessAudit(ctx context.Context, competitorID string) ([]replay.AuditRow, error) {
	defer replayTimer("audit")()
	return s.engine.FairnessAudit(ctx, competitorID)
}

// LiveStates exposes the incrementally maintained rating state, primarily so
// audits can compare it against a fresh replay.
func (s *Service) LiveStates(ctx context.Context, competitorID string) (map[string]model.RatingState, error) {
	return s.store.RatingStates(ctx, competitorID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		stats["queueLength"] = s.factQueue.Len(ctx)
		stats["totalCompetitors"] = s.store.Competitors(ctx)
		stats["factCount"] = s.store.FactCount(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
	}
	return stats
}

// competitorLock returns the mutex serializing writes for one competitor.
func (s *Service) competitorLock(competitorID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[competitorID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[competitorID] = lock
	}
	return lock
}

// replayTimer records one replay operation and returns a stop func for its
// duration.
func replayTimer(operation string) func() {
	start := time.Now()
	metrics.RecordReplay(operation)
	return func() {
		metrics.RecordReplayDuration(operation, float64(time.Since(start).Milliseconds()))
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
