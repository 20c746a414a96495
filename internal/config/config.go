// Package config provides configuration for chessdb.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/lgbarn/chessdb-go/internal/errors"
)

// Config holds all program configuration. Each concern lives in its own
// sub-config with its own defaults and validation.
type Config struct {
	Storage StorageConfig
	Load    LoadConfig
	Logging LoggingConfig
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Storage: *NewStorageConfig(),
		Load:    *NewLoadConfig(),
		Logging: *NewLoggingConfig(),
	}
}

// Validate checks every sub-config.
func (c *Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Load.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// StorageConfig holds database settings.
type StorageConfig struct {
	// Path is the SQLite database file, or ":memory:"
	Path string `env:"CHESSDB_PATH"`

	// WAL enables write-ahead logging
	WAL bool `env:"CHESSDB_WAL"`

	// LegacyMatch trusts position digests without the exact placement recheck
	LegacyMatch bool `env:"CHESSDB_LEGACY_MATCH"`
}

// NewStorageConfig creates a StorageConfig with default values.
func NewStorageConfig() *StorageConfig {
	return &StorageConfig{
		Path: "chessdb.sqlite",
		WAL:  true,
	}
}

// Validate checks that the storage configuration is valid.
func (s *StorageConfig) Validate() error {
	if strings.TrimSpace(s.Path) == "" {
		return fmt.Errorf("database path is empty: %w", errors.ErrInvalidConfig)
	}
	return nil
}

// LoadConfig holds bulk-load settings.
type LoadConfig struct {
	// Workers is the number of parsing goroutines
	Workers int `env:"CHESSDB_WORKERS"`

	// BatchSize is the number of games inserted per transaction
	BatchSize int `env:"CHESSDB_BATCH_SIZE"`

	// Dedupe skips games already seen in the same load
	Dedupe bool `env:"CHESSDB_DEDUPE"`
}

// NewLoadConfig creates a LoadConfig with default values.
func NewLoadConfig() *LoadConfig {
	return &LoadConfig{
		Workers:   runtime.NumCPU(),
		BatchSize: 500,
	}
}

// Validate checks that the load configuration is valid.
func (l *LoadConfig) Validate() error {
	if l.Workers < 1 {
		return fmt.Errorf("workers (%d) must be at least 1: %w", l.Workers, errors.ErrInvalidConfig)
	}
	if l.BatchSize < 1 {
		return fmt.Errorf("batch size (%d) must be at least 1: %w", l.BatchSize, errors.ErrInvalidConfig)
	}
	return nil
}
