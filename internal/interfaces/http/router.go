// Package http assembles the gin engine and server of the SimilACTrail API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SimilACTrail/internal/application/trail"
	"github.com/turtacn/SimilACTrail/internal/config"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SimilACTrail/internal/interfaces/http/handlers"
	"github.com/turtacn/SimilACTrail/internal/interfaces/http/middleware"
	"github.com/turtacn/SimilACTrail/pkg/errors"
	"github.com/turtacn/SimilACTrail/pkg/types/common"
)

// RouterConfig aggregates the dependencies of the route tree.
type RouterConfig struct {
	Server  config.ServerConfig
	Service trail.Service
	Version string
	Logger  logging.Logger

	HealthCheckers []handlers.HealthChecker

	// Metrics instruments requests; MetricsCollector, when set, is exposed
	// at MetricsPath.
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter builds the engine: global middleware, probes, metrics and the
// /api/v1 analysis routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.RequestLogging(logger, middleware.DefaultLoggingConfig()),
		middleware.Metrics(cfg.Metrics),
	)
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.CORSAllowedOrigins...)))
	}
	r.NoRoute(func(c *gin.Context) {
		resp := common.NewErrorResponse(string(errors.ErrCodeNotFound), "route not found", c.Request.URL.Path)
		resp.RequestID = middleware.GetRequestID(c)
		c.JSON(http.StatusNotFound, resp)
	})

	handlers.NewHealthHandler(cfg.Version, cfg.HealthCheckers...).RegisterRoutes(r)

	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = config.DefaultMetricsPath
		}
		r.GET(path, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	runMW := []gin.HandlerFunc{middleware.BodyLimit(cfg.Server.MaxBodySize)}
	if rl := cfg.Server.RateLimit; rl.Enabled {
		runMW = append(runMW, middleware.RateLimit(middleware.NewKeyedLimiter(rl.RequestsPerSecond, rl.Burst, 0)))
	}

	api := r.Group("/api/v1")
	handlers.NewAnalysisHandler(cfg.Service, logger).RegisterRoutes(api, runMW...)

	return r
}

//Personal.AI order the ending
