package config

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// NewConfigBuilderFrom creates a ConfigBuilder that modifies a copy of cfg.
func NewConfigBuilderFrom(cfg *Config) *ConfigBuilder {
	c := *cfg
	return &ConfigBuilder{cfg: &c}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithDatabase sets the database path.
func (b *ConfigBuilder) WithDatabase(path string) *ConfigBuilder {
	b.cfg.Storage.Path = path
	return b
}

// WithWAL enables or disables write-ahead logging.
func (b *ConfigBuilder) WithWAL(enabled bool) *ConfigBuilder {
	b.cfg.Storage.WAL = enabled
	return b
}

// WithLegacyMatch enables digest-only position matching.
func (b *ConfigBuilder) WithLegacyMatch(enabled bool) *ConfigBuilder {
	b.cfg.Storage.LegacyMatch = enabled
	return b
}

// WithWorkers sets the number of parsing workers.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.cfg.Load.Workers = n
	return b
}

// WithBatchSize sets the insert batch size.
func (b *ConfigBuilder) WithBatchSize(n int) *ConfigBuilder {
	b.cfg.Load.BatchSize = n
	return b
}

// WithDedupe enables duplicate suppression during loads.
func (b *ConfigBuilder) WithDedupe(enabled bool) *ConfigBuilder {
	b.cfg.Load.Dedupe = enabled
	return b
}

// WithLogLevel sets the log level.
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.cfg.Logging.Level = level
	return b
}

// WithLogFormat sets the log format.
func (b *ConfigBuilder) WithLogFormat(format string) *ConfigBuilder {
	b.cfg.Logging.Format = format
	return b
}
