// Package baseline resolves per-skill starting values from assessment data.
package baseline

import "context"

// DefaultValue is the neutral baseline used when a competitor has no
// assessment for a skill. Missing assessments are a common, expected case
// (skills added after onboarding, incomplete onboarding), not an error.
const DefaultValue = 50.0

// Source supplies assessed baselines. Implementations must treat absence as
// ordinary data, not a failure.
type Source interface {
	// Baselines returns every assessed (skill, value) pair for a competitor.
	// ok is false when the competitor has no assessment data at all.
	Baselines(ctx context.Context, competitorID string) (map[string]float64, bool)
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithDefaultValue overrides the neutral default baseline.
func WithDefaultValue(v float64) Option {
	return func(r *Resolver) {
		if v > 0 {
			r.defaultValue = v
		}
	}
}

// Resolver answers baseline lookups with explicit present/absent semantics.
// It never fails and has no side effects.
type Resolver struct {
	source       Source
	defaultValue float64
}

// NewResolver creates a resolver over the given assessment source.
func NewResolver(source Source, opts ...Option) *Resolver {
	r := &Resolver{
		source:       source,
		defaultValue: DefaultValue,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultBaseline returns the neutral value this resolver fills gaps with.
func (r *Resolver) DefaultBaseline() float64 {
	return r.defaultValue
}

// Resolve returns a baseline for every requested skill, filling gaps with the
// neutral default.
func (r *Resolver) Resolve(ctx context.Context, competitorID string, skillKeys []string) map[string]float64 {
	assessed, _ := r.source.Baselines(ctx, competitorID)
	out := make(map[string]float64, len(skillKeys))
	for _, key := range skillKeys {
		if v, ok := assessed[key]; ok {
			out[key] = v
		} else {
			out[key] = r.defaultValue
		}
	}
	return out
}

// Value returns one skill's baseline. ok reports whether the value came from
// an assessment; when false the neutral default is returned.
func (r *Resolver) Value(ctx context.Context, competitorID, skillKey string) (float64, bool) {
	assessed, found := r.source.Baselines(ctx, competitorID)
	if !found {
		return r.defaultValue, false
	}
	v, ok := assessed[skillKey]
	if !ok {
		return r.defaultValue, false
	}
	return v, true
}

// Average is the mean over the competitor's full assessed skill set. ok is
// false when there is no assessment data, in which case the neutral default
// is returned so callers can still divide by something meaningful.
func (r *Resolver) Average(ctx context.Context, competitorID string) (float64, bool) {
	assessed, found := r.source.Baselines(ctx, competitorID)
	if !found || len(assessed) == 0 {
		return r.defaultValue, false
	}
	sum := 0.0
	for _, v := range assessed {
		sum += v
	}
	return sum / float64(len(assessed)), true
}
