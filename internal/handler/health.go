package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/personal-dashboard/internal/middleware"
	"github.com/deppfellow/personal-dashboard/internal/repository"
	"github.com/deppfellow/personal-dashboard/internal/server"
)

// HealthHandler reports whether the service and its expense store are reachable.
type HealthHandler struct {
	Handler
	store repository.ExpenseStore
}

func NewHealthHandler(s *server.Server, store repository.ExpenseStore) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		store:   store,
	}
}

func (h *HealthHandler) timeout() time.Duration {
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		return obs.HealthChecks.Timeout
	}
	return 5 * time.Second
}

func (h *HealthHandler) recordFailure(checkType string, attrs map[string]interface{}) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	attrs["check_type"] = checkType
	attrs["operation"] = "health_check"
	app.RecordCustomEvent("HealthCheckError", attrs)
}

// CheckHealth answers 200 when the store answers a ping, 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout())
	defer cancel()

	storeStart := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		checks["store"] = map[string]interface{}{
			"status":        "unhealthy",
			"driver":        h.server.Config.Store.Driver,
			"response_time": time.Since(storeStart).String(),
			"error":         err.Error(),
		}

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(storeStart)).
			Msg("store health check failed")

		h.recordFailure("store", map[string]interface{}{
			"error_type":       "store_unhealthy",
			"response_time_ms": time.Since(storeStart).Milliseconds(),
			"error_message":    err.Error(),
		})

		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	checks["store"] = map[string]interface{}{
		"status":        "healthy",
		"driver":        h.server.Config.Store.Driver,
		"response_time": time.Since(storeStart).String(),
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
