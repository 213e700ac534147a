// Package config loads the simulated-annealing cooling schedule from the
// environment, falling back to the reference defaults. This is the direct
// Go analogue of the original's get_from_env_or_default.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dries007/ProjectAI-CarSharing/internal/anneal"
)

// FromEnv returns anneal.DefaultConfig() with any of SA_TMAX, SA_TMIN,
// SA_ITERATIONS, SA_ALPHA overridden by the matching environment variable,
// if set and parseable. A malformed value is reported as an error rather
// than silently ignored, since a typo'd env var should fail loudly at
// startup instead of silently falling back to a default the operator did
// not expect.
func FromEnv() (anneal.Config, error) {
	cfg := anneal.DefaultConfig()

	if err := overrideFloat("SA_TMAX", &cfg.TMax); err != nil {
		return cfg, err
	}
	if err := overrideFloat("SA_TMIN", &cfg.TMin); err != nil {
		return cfg, err
	}
	if err := overrideInt("SA_ITERATIONS", &cfg.Iterations); err != nil {
		return cfg, err
	}
	if err := overrideFloat("SA_ALPHA", &cfg.Alpha); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func overrideFloat(key string, dst *float64) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("config: %s=%q: %w", key, raw, err)
	}
	*dst = v
	return nil
}

func overrideInt(key string, dst *int) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("config: %s=%q: %w", key, raw, err)
	}
	*dst = v
	return nil
}
