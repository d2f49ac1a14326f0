package emitter

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Option configures an Emitter.
type Option func(*settings)

// PanicHandler is called when a handler panics while the emitter runs in
// isolation mode. Receives the key being dispatched (the emitter's K) and the
// recovered value.
type PanicHandler func(key any, recovered any)

type settings struct {
	logger       zerolog.Logger
	isolate      bool
	panicHandler PanicHandler
	metrics      *Metrics
}

func defaultSettings() settings {
	return settings{
		logger: zerolog.Nop(),
	}
}

// WithLogger sets the logger used for registry changes and isolated failures.
// Default is a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithIsolation makes Emit run every handler even when earlier ones fail.
// Panics are recovered into *PanicError and all failures are returned joined.
// Without this option the first failing handler stops the dispatch and a
// panic propagates to the caller of Emit.
func WithIsolation() Option {
	return func(s *settings) {
		s.isolate = true
	}
}

// WithPanicHandler sets a callback invoked for every panic recovered in
// isolation mode. Has no effect otherwise.
func WithPanicHandler(handler PanicHandler) Option {
	return func(s *settings) {
		s.panicHandler = handler
	}
}

// WithMetrics records dispatch metrics on m. A single Metrics may be shared
// by several emitters.
func WithMetrics(m *Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// Config is the file form of the emitter options.
type Config struct {
	Isolate          bool   `yaml:"isolate"`
	LogLevel         string `yaml:"log_level"`
	MetricsNamespace string `yaml:"metrics_namespace"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Options converts the config into emitter options. The logger is leveled by
// LogLevel when set. Metrics are registered on reg only when both reg and
// MetricsNamespace are set.
func (c Config) Options(logger zerolog.Logger, reg prometheus.Registerer) ([]Option, error) {
	if c.LogLevel != "" {
		level, err := zerolog.ParseLevel(c.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
		}
		logger = logger.Level(level)
	}

	opts := []Option{WithLogger(logger)}
	if c.Isolate {
		opts = append(opts, WithIsolation())
	}
	if reg != nil && c.MetricsNamespace != "" {
		m, err := NewMetrics(reg, c.MetricsNamespace)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithMetrics(m))
	}
	return opts, nil
}
