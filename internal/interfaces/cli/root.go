// Package cli implements the similactrail command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/SimilACTrail/internal/application/trail"
	"github.com/turtacn/SimilACTrail/internal/config"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
	ServerAddr   string
}

// ServiceFactory builds the analysis service from the loaded configuration.
// The returned closer releases whatever the service holds open.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger logging.Logger) (trail.Service, func() error, error)

// Option customizes the root command.
type Option func(*rootSettings)

type rootSettings struct {
	factory ServiceFactory
}

// WithServiceFactory replaces the default service wiring.
func WithServiceFactory(f ServiceFactory) Option {
	return func(s *rootSettings) { s.factory = f }
}

// DefaultServiceFactory wires the fetcher, the optional MinIO store and the
// analyzer from cfg.  Local dataset paths are allowed.
func DefaultServiceFactory(ctx context.Context, cfg *config.Config, logger logging.Logger) (trail.Service, func() error, error) {
	comps, err := trail.Build(ctx, cfg, logger, nil, true)
	if err != nil {
		return nil, nil, err
	}
	return comps.Service, comps.Close, nil
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration

	factory ServiceFactory
	once    sync.Once
	service trail.Service
	closer  func() error
	err     error
}

// Service builds the analysis service on first use.
func (c *CLIContext) Service(ctx context.Context) (trail.Service, error) {
	c.once.Do(func() {
		c.service, c.closer, c.err = c.factory(ctx, c.Config, c.Logger)
	})
	return c.service, c.err
}

// Close releases the service if it was built.
func (c *CLIContext) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// NewRootCommand creates the root command with its global flags and
// subcommands.
func NewRootCommand(options ...Option) *cobra.Command {
	settings := &rootSettings{factory: DefaultServiceFactory}
	for _, o := range options {
		o(settings)
	}
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "similactrail",
		Short: "Pairwise molecular similarity and activity-cliff analysis",
		Long: "SimilACTrail compares every pair of compounds in a table of structures and\n" +
			"activities, classifies each pair into a similarity/activity quadrant and\n" +
			"exports the pair table and a scatter map of the activity landscape.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, settings)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cliCtx, err := GetCLIContext(cmd); err == nil {
				return cliCtx.Close()
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./similactrail.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config file")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 5*time.Minute, "global operation timeout")
	pf.StringVar(&opts.ServerAddr, "server", "", "run analyses on a SimilACTrail API server (e.g. http://localhost:8080)")

	cmd.AddCommand(
		NewAnalyzeCmd(),
		NewPresetsCmd(),
		NewVersionCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions, settings *rootSettings) error {
	switch strings.ToLower(opts.OutputFormat) {
	case "text", "json", "table":
	default:
		return errors.InvalidParam("unsupported output format").WithDetail(opts.OutputFormat)
	}

	cfg, err := initConfig(cmd, opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	if opts.NoColor {
		color.NoColor = true
	}

	factory := settings.factory
	if opts.ServerAddr != "" {
		factory = RemoteServiceFactory(opts.ServerAddr)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: strings.ToLower(opts.OutputFormat),
		Verbose:      opts.Verbose,
		NoColor:      opts.NoColor,
		Timeout:      opts.Timeout,
		factory:      factory,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration from --config, then the default search
// paths, then the environment alone.
func initConfig(cmd *cobra.Command, opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}

	searchPaths := []string{"./similactrail.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDir, ".similactrail", "config.yaml"))
	}
	searchPaths = append(searchPaths, "/etc/similactrail/config.yaml")

	for _, p := range searchPaths {
		if _, statErr := os.Stat(p); statErr == nil {
			return config.Load(p)
		}
	}
	return config.LoadFromEnv()
}

// initLogger creates a console logger on stderr.  --verbose wins over
// --log-level, which wins over the configured level.
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = strings.ToLower(opts.LogLevel)
	}
	if opts.Verbose {
		level = logging.LevelDebug
	}

	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute(options ...Option) error {
	rootCmd := NewRootCommand(options...)
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

//Personal.AI order the ending
