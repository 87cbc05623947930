// Command apiserver serves the SimilACTrail HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SimilACTrail/internal/application/trail"
	"github.com/turtacn/SimilACTrail/internal/config"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/storage/minio"
	httpserver "github.com/turtacn/SimilACTrail/internal/interfaces/http"
	"github.com/turtacn/SimilACTrail/internal/interfaces/http/handlers"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var collector prometheus.MetricsCollector
	metricsCollector := prometheus.NewNopCollector()
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
		}, logger)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		metricsCollector = collector
	}
	metrics := prometheus.NewAppMetrics(metricsCollector)

	comps, err := trail.Build(ctx, cfg, logger, metrics, false)
	if err != nil {
		return err
	}
	defer comps.Close()

	var checkers []handlers.HealthChecker
	if comps.MinIO != nil {
		checkers = append(checkers, minioCheck(comps.MinIO))
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Server:           cfg.Server,
		Service:          comps.Service,
		Version:          version,
		Logger:           logger,
		HealthCheckers:   checkers,
		Metrics:          metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
	})
	server := httpserver.NewServer(cfg.Server, router, logger)

	if configPath != "" {
		config.Watch(configPath, func(next *config.Config) {
			if logging.SetLevel(logger, next.Log.Level) {
				logger.Info("log level reloaded", logging.String("level", next.Log.Level))
			}
		}, func(err error) {
			logger.Warn("config reload rejected", logging.Err(err))
		})
	}

	logger.Info("starting SimilACTrail API server",
		logging.String("version", version),
		logging.String("addr", server.Addr()),
		logging.Bool("minio", comps.MinIO != nil),
		logging.Bool("metrics", cfg.Metrics.Enabled))

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return server.Stop(context.Background())
}

func minioCheck(client *minio.MinIOClient) handlers.HealthChecker {
	return handlers.NewHealthCheck("minio", client.Ping)
}

//Personal.AI order the ending
