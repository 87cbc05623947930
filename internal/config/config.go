// Package config defines the configuration structures of SimilACTrail.  No
// I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/SimilACTrail/internal/domain/activity"
	"github.com/turtacn/SimilACTrail/internal/domain/molecule"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/fetch"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/storage/minio"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// CORSAllowedOrigins lists browser origins allowed to call the API; "*"
	// allows any.  Empty disables CORS headers.
	CORSAllowedOrigins []string        `mapstructure:"cors_allowed_origins"`
	RateLimit          RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig bounds analysis requests per client IP.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AnalysisConfig holds the default run parameters.
type AnalysisConfig struct {
	Preset                      string  `mapstructure:"preset"`
	BitLength                   int     `mapstructure:"bit_length"`
	SimilarityThreshold         float64 `mapstructure:"similarity_threshold"`
	ActivityDifferenceThreshold float64 `mapstructure:"activity_difference_threshold"`
	Workers                     int     `mapstructure:"workers"`
}

// Parameters converts the section into domain parameters.  The preset name
// is matched case-insensitively.
func (a AnalysisConfig) Parameters() activity.Parameters {
	preset, err := molecule.ParsePreset(a.Preset)
	if err != nil {
		preset = molecule.Preset(a.Preset)
	}
	return activity.Parameters{
		Preset:                      preset,
		BitLength:                   a.BitLength,
		SimilarityThreshold:         a.SimilarityThreshold,
		ActivityDifferenceThreshold: a.ActivityDifferenceThreshold,
		Workers:                     a.Workers,
	}
}

// SampleColumns names the columns of the sample dataset.
type SampleColumns struct {
	ID       string `mapstructure:"id"`
	Smiles   string `mapstructure:"smiles"`
	Activity string `mapstructure:"activity"`
}

// AssetsConfig locates the remote sample dataset and map logo.
type AssetsConfig struct {
	SampleDatasetURL string        `mapstructure:"sample_dataset_url"`
	SampleColumns    SampleColumns `mapstructure:"sample_columns"`
	LogoURL          string        `mapstructure:"logo_url"`
	Fetch            fetch.Config  `mapstructure:"fetch"`
}

// MetricsConfig controls the Prometheus collector.
type MetricsConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	Namespace            string `mapstructure:"namespace"`
	Path                 string `mapstructure:"path"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
}

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	Log      logging.LogConfig `mapstructure:"log"`
	Analysis AnalysisConfig    `mapstructure:"analysis"`
	Assets   AssetsConfig      `mapstructure:"assets"`
	MinIO    minio.MinIOConfig `mapstructure:"minio"`
	Metrics  MetricsConfig     `mapstructure:"metrics"`
}

// Validate performs semantic validation of the fully-populated Config.  It
// returns the first error encountered.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}
	if c.Server.MaxBodySize < 1 {
		return fmt.Errorf("config: server.max_body_size must be positive, got %d", c.Server.MaxBodySize)
	}
	if rl := c.Server.RateLimit; rl.Enabled && (rl.RequestsPerSecond <= 0 || rl.Burst < 1) {
		return fmt.Errorf("config: server.rate_limit needs a positive rate and burst, got %g/%d", rl.RequestsPerSecond, rl.Burst)
	}

	switch c.Log.Level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if err := c.Analysis.Parameters().Validate(); err != nil {
		return fmt.Errorf("config: analysis: %w", err)
	}
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("config: analysis.workers must be at least 1, got %d", c.Analysis.Workers)
	}

	if c.Assets.SampleDatasetURL == "" {
		return fmt.Errorf("config: assets.sample_dataset_url is required")
	}

	if c.MinIO.Enabled {
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("config: minio.endpoint is required when minio is enabled")
		}
		if c.MinIO.AccessKeyID == "" || c.MinIO.SecretAccessKey == "" {
			return fmt.Errorf("config: minio credentials are required when minio is enabled")
		}
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}
	return nil
}

//Personal.AI order the ending
