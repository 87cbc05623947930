package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/SimilACTrail/pkg/types/common"
)

const readinessTimeout = 5 * time.Second

// HealthChecker reports whether one dependency of the server is usable.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

type namedCheck struct {
	name  string
	check func(ctx context.Context) error
}

func (n namedCheck) Name() string                    { return n.name }
func (n namedCheck) Check(ctx context.Context) error { return n.check(ctx) }

func NewHealthCheck(name string, fn func(ctx context.Context) error) HealthChecker {
	return namedCheck{name: name, check: fn}
}

// HealthHandler serves /healthz and /readyz.
type HealthHandler struct {
	version  string
	started  time.Time
	checkers []HealthChecker
}

func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{version: version, started: time.Now(), checkers: checkers}
}

func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

type LivenessResponse struct {
	Status  common.HealthStatus `json:"status"`
	Version string              `json:"version"`
	Uptime  string              `json:"uptime"`
}

type ReadinessResponse struct {
	Status     common.HealthStatus               `json:"status"`
	Components map[string]common.ComponentHealth `json:"components,omitempty"`
}

// Liveness never consults the checkers.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, LivenessResponse{
		Status:  common.HealthUp,
		Version: h.version,
		Uptime:  time.Since(h.started).Truncate(time.Second).String(),
	})
}

// Readiness answers 503 as soon as one component is down.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	resp := ReadinessResponse{Status: common.HealthUp, Components: h.probe(ctx)}
	status := http.StatusOK
	for _, comp := range resp.Components {
		if comp.Status != common.HealthUp {
			resp.Status = common.HealthDown
			status = http.StatusServiceUnavailable
			break
		}
	}
	c.JSON(status, resp)
}

func (h *HealthHandler) probe(ctx context.Context) map[string]common.ComponentHealth {
	if len(h.checkers) == 0 {
		return nil
	}
	var (
		mu  sync.Mutex
		out = make(map[string]common.ComponentHealth, len(h.checkers))
		g   errgroup.Group
	)
	for _, hc := range h.checkers {
		hc := hc
		g.Go(func() error {
			start := time.Now()
			err := hc.Check(ctx)
			comp := common.ComponentHealth{
				Name:    hc.Name(),
				Status:  common.HealthUp,
				Latency: time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				comp.Status = common.HealthDown
				comp.Message = err.Error()
			}
			mu.Lock()
			out[comp.Name] = comp
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

//Personal.AI order the ending
