package config

import (
	"time"

	"github.com/turtacn/SimilACTrail/internal/domain/activity"
	"github.com/turtacn/SimilACTrail/internal/domain/molecule"
)

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultMaxBodySize     = 32 << 20
	DefaultShutdownTimeout = 15 * time.Second
	DefaultRateLimitRPS    = 2.0
	DefaultRateLimitBurst  = 5

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultWorkers = 1

	DefaultSampleDatasetURL = "https://github.com/Amincheminfom/SimilACTrail_v1/raw/main/SimilACTrail_sample.csv"
	DefaultLogoURL          = "https://github.com/Amincheminfom/Amincheminfom/raw/main/Cheminform_logo.jpg"
	DefaultSampleIDColumn   = "Molecule ChEMBL ID"
	DefaultSampleSmiles     = "Smiles"
	DefaultSampleActivity   = "pIC50"
	DefaultFetchTimeout     = 30 * time.Second
	DefaultFetchRetryMax    = 2

	DefaultMinIOEndpoint = "localhost:9000"

	DefaultMetricsNamespace = "similactrail"
	DefaultMetricsPath      = "/metrics"
)

// ApplyDefaults fills every zero-value field in cfg with its default.
// Fields already set are left unchanged so explicit configuration wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RateLimit.RequestsPerSecond == 0 {
		cfg.Server.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = DefaultRateLimitBurst
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Analysis ──────────────────────────────────────────────────────────────
	if cfg.Analysis.Preset == "" {
		cfg.Analysis.Preset = string(molecule.DefaultPreset)
	}
	if cfg.Analysis.BitLength == 0 {
		cfg.Analysis.BitLength = molecule.DefaultBitLength
	}
	if cfg.Analysis.SimilarityThreshold == 0 {
		cfg.Analysis.SimilarityThreshold = activity.DefaultSimilarityThreshold
	}
	if cfg.Analysis.ActivityDifferenceThreshold == 0 {
		cfg.Analysis.ActivityDifferenceThreshold = activity.DefaultActivityDifferenceThreshold
	}
	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = DefaultWorkers
	}

	// ── Assets ────────────────────────────────────────────────────────────────
	if cfg.Assets.SampleDatasetURL == "" {
		cfg.Assets.SampleDatasetURL = DefaultSampleDatasetURL
	}
	if cfg.Assets.LogoURL == "" {
		cfg.Assets.LogoURL = DefaultLogoURL
	}
	if cfg.Assets.SampleColumns.ID == "" {
		cfg.Assets.SampleColumns.ID = DefaultSampleIDColumn
	}
	if cfg.Assets.SampleColumns.Smiles == "" {
		cfg.Assets.SampleColumns.Smiles = DefaultSampleSmiles
	}
	if cfg.Assets.SampleColumns.Activity == "" {
		cfg.Assets.SampleColumns.Activity = DefaultSampleActivity
	}
	if cfg.Assets.Fetch.Timeout == 0 {
		cfg.Assets.Fetch.Timeout = DefaultFetchTimeout
	}
	if cfg.Assets.Fetch.RetryMax == 0 {
		cfg.Assets.Fetch.RetryMax = DefaultFetchRetryMax
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
