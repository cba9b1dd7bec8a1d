package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/personal-dashboard/internal/handler"
	"github.com/deppfellow/personal-dashboard/internal/server"
)

// registerSystemRoutes registers the endpoints that are not part of the
// dashboard API: health, docs and the static docs assets.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	if obs := s.Config.Observability; obs == nil || obs.HealthChecks.Enabled {
		r.GET("/status", h.Health.CheckHealth)
	}

	r.Static("/static", "static")
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
