package trail

import (
	"context"

	"github.com/turtacn/SimilACTrail/internal/config"
	"github.com/turtacn/SimilACTrail/internal/domain/activity"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/fetch"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/storage/minio"
)

// Components are the wired service and the infrastructure behind it.
// MinIO is nil when object storage is disabled.
type Components struct {
	Service Service
	MinIO   *minio.MinIOClient
}

// Close releases the infrastructure clients.
func (c *Components) Close() error {
	if c.MinIO != nil {
		return c.MinIO.Close()
	}
	return nil
}

// Build wires a Service from cfg.  metrics may be nil.
func Build(_ context.Context, cfg *config.Config, logger logging.Logger, metrics *prometheus.AppMetrics, allowLocalFiles bool) (*Components, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	comps := &Components{}
	deps := Deps{
		Analyzer: activity.NewAnalyzer(logger),
		Fetcher:  fetch.NewHTTPFetcher(cfg.Assets.Fetch, logger),
		Metrics:  metrics,
		Logger:   logger,
	}

	if cfg.MinIO.Enabled {
		mcfg := cfg.MinIO
		client, err := minio.NewMinIOClient(&mcfg, logger)
		if err != nil {
			return nil, err
		}
		comps.MinIO = client
		deps.Store = minio.NewArtifactStore(client, logger)
	}

	svc, err := NewService(deps, Settings{
		Analysis:        cfg.Analysis,
		Assets:          cfg.Assets,
		AllowLocalFiles: allowLocalFiles,
	})
	if err != nil {
		_ = comps.Close()
		return nil, err
	}
	comps.Service = svc
	return comps, nil
}

//Personal.AI order the ending
