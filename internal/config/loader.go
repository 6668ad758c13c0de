package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if AGON_CONFIG is set
//  3. env (prefix AGON_)
func Load(ctx context.Context) (*Config, error) {
	_ = ctx

	base := New()
	k := koanf.New(".")

	if path := os.Getenv("AGON_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: AGON_ADDR, AGON_FACT_QUEUE_SIZE, ...
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("AGON_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "agon_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LearningRate <= 0 || c.LearningRate > 1:
		return fmt.Errorf("%w: learning_rate must be in (0, 1]", ErrInvalidConfig)
	case c.DefaultBaseline < 0 || c.DefaultBaseline > 100:
		return fmt.Errorf("%w: default_baseline must be in [0, 100]", ErrInvalidConfig)
	}
	return nil
}
