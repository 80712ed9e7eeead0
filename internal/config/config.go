// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and the environment on top of the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"runtime"
	"sort"
	"time"

	"github.com/okian/accredit/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of report workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeTTLSeconds is how long a submission id is remembered.
	DedupeTTLSeconds int `koanf:"dedupe_ttl_seconds"`

	// ReportTTLMinutes is how long a stored report is kept.
	ReportTTLMinutes int `koanf:"report_ttl_minutes"`

	// MaxPayloadBytes caps request bodies.
	MaxPayloadBytes int64 `koanf:"max_payload_bytes"`

	// ThresholdsMet and ThresholdsPartially apply when a payload has no thresholds.
	ThresholdsMet       float64 `koanf:"thresholds_met"`
	ThresholdsPartially float64 `koanf:"thresholds_partially"`

	// FailRatio is the share of max points needed to pass a question in the
	// diagnostics.
	FailRatio float64 `koanf:"fail_ratio"`

	// GradeBands maps letters to their lower cutoff; used when a payload has none.
	GradeBands map[string]float64 `koanf:"grade_bands"`

	// UnspecifiedCognitiveLabel buckets questions without cognitive tags.
	// Empty leaves them out of the cognitive distribution.
	UnspecifiedCognitiveLabel string `koanf:"unspecified_cognitive_label"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		QueueSize:           1_000,
		WorkerCount:         runtime.NumCPU(),
		DedupeTTLSeconds:    600,
		ReportTTLMinutes:    1_440,
		MaxPayloadBytes:     4 << 20,
		ThresholdsMet:       70,
		ThresholdsPartially: 50,
		FailRatio:           0.5,
		GradeBands: map[string]float64{
			"A": 90,
			"B": 80,
			"C": 70,
			"D": 60,
			"F": 0,
		},
		UnspecifiedCognitiveLabel: "unspecified",
	}
}

// Thresholds returns the configured default thresholds.
func (c *Config) Thresholds() model.Thresholds {
	return model.Thresholds{Met: c.ThresholdsMet, Partially: c.ThresholdsPartially}
}

// Bands returns the configured grade bands ordered by descending cutoff.
func (c *Config) Bands() []model.GradeBand {
	bands := make([]model.GradeBand, 0, len(c.GradeBands))
	for letter, cutoff := range c.GradeBands {
		bands = append(bands, model.GradeBand{Letter: letter, Cutoff: cutoff})
	}
	sort.Slice(bands, func(i, j int) bool {
		if bands[i].Cutoff != bands[j].Cutoff {
			return bands[i].Cutoff > bands[j].Cutoff
		}
		return bands[i].Letter < bands[j].Letter
	})
	return bands
}

// DedupeTTL returns the dedupe window.
func (c *Config) DedupeTTL() time.Duration {
	return time.Duration(c.DedupeTTLSeconds) * time.Second
}

// ReportTTL returns how long stored reports are kept.
func (c *Config) ReportTTL() time.Duration {
	return time.Duration(c.ReportTTLMinutes) * time.Minute
}
