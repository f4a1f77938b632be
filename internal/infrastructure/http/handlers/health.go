package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler handles GET /health, the liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Pinger is anything that can answer a reachability check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthDependenciesHandler handles GET /health/ready, the readiness probe.
// Checks that the storefront API answers, that the session has been restored,
// and, when the cart relay is enabled, that Redis answers.
type HealthDependenciesHandler struct {
	api     Pinger
	session <-chan struct{}
	redis   *redis.Client
}

// NewHealthDependenciesHandler builds the readiness probe. rdb may be nil when
// the cart relay is disabled.
func NewHealthDependenciesHandler(api Pinger, sessionReady <-chan struct{}, rdb *redis.Client) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{
		api:     api,
		session: sessionReady,
		redis:   rdb,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	// --- Storefront API reachable ---
	if err := h.api.Ping(ctx); err != nil {
		deps["api"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["api"] = dependencyStatus{Status: "ok"}
	}

	// --- Session restored ---
	select {
	case <-h.session:
		deps["session"] = dependencyStatus{Status: "ok"}
	default:
		deps["session"] = dependencyStatus{Status: "loading"}
		healthy = false
	}

	// --- Redis ping (cart relay) ---
	if h.redis != nil {
		if _, err := h.redis.Ping(ctx).Result(); err != nil {
			deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			deps["redis"] = dependencyStatus{Status: "ok"}
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
