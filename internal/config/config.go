// Package config defines service configuration and loading.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory analysis job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the submission-hash cache.
	DedupeSize int `koanf:"dedupe_size"`

	// StoreCapacity bounds the number of retained reports.
	StoreCapacity int `koanf:"store_capacity"`

	// MaxEvents caps the number of events accepted per submission.
	MaxEvents int `koanf:"max_events"`

	// MaxRecentLimit caps GET /reports?limit.
	MaxRecentLimit int `koanf:"max_recent_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9090",
		QueueSize:      1024,
		WorkerCount:    runtime.NumCPU(),
		DedupeSize:     50_000,
		StoreCapacity:  10_000,
		MaxEvents:      500_000,
		MaxRecentLimit: 100,
	}
}
