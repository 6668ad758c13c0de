// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep defaults in New and let Load layer file/env values on top.
// - External errors must be wrapped via this package's error kinds.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// FactQueueSize bounds the in-memory fact queue.
	FactQueueSize int `koanf:"fact_queue_size"`

	// WorkerCount sets the number of fact-apply workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the fact idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// LearningRate anchors the EMA step size at weight 1.0.
	LearningRate float64 `koanf:"learning_rate"`

	// DefaultBaseline is the neutral starting value for unassessed skills.
	DefaultBaseline float64 `koanf:"default_baseline"`

	// PresetWeights holds fractional preset weights per skill. They are
	// normalized by their mean into reactivity multipliers before use and
	// apply to facts that arrive without their own skill mapping.
	PresetWeights map[string]float64 `koanf:"preset_weights"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		FactQueueSize:   100_000,
		WorkerCount:     runtime.NumCPU() * 2,
		DedupeSize:      500_000,
		LearningRate:    0.20,
		DefaultBaseline: 50.0,
		PresetWeights: map[string]float64{
			"dribble": 0.25,
			"shot":    0.25,
			"defense": 0.25,
			"stamina": 0.25,
		},
	}
}
