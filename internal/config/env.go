package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/lgbarn/chessdb-go/internal/errors"
)

// LoadFromEnv returns the defaults overlaid with CHESSDB_* environment
// variables, validated.
func LoadFromEnv() (*Config, error) {
	cfg := NewConfig()
	if err := cfg.ApplyEnv(nil); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays variables from environment, or from the process
// environment when it is nil. Unset variables leave fields unchanged.
func (c *Config) ApplyEnv(environment map[string]string) error {
	var opts env.Options
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("parse env: %w: %w", errors.ErrInvalidConfig, err)
	}
	return nil
}
