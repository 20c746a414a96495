package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lgbarn/chessdb-go/internal/errors"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is debug, info, warn or error
	Level string `env:"CHESSDB_LOG_LEVEL"`

	// Format is text or json
	Format string `env:"CHESSDB_LOG_FORMAT"`
}

// NewLoggingConfig creates a LoggingConfig with default values.
func NewLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:  "info",
		Format: FormatText,
	}
}

// Validate checks that the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	if _, err := l.level(); err != nil {
		return err
	}
	switch strings.ToLower(l.Format) {
	case FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf("log format %q: %w", l.Format, errors.ErrInvalidConfig)
	}
}

func (l *LoggingConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", l.Level, errors.ErrInvalidConfig)
	}
	return lvl, nil
}

// NewLogger builds a logger writing to w at the configured level and format.
func NewLogger(cfg LoggingConfig, w io.Writer) (*slog.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lvl, _ := cfg.level()
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}
