// Package router builds the Echo instance: global middleware, system
// routes and the /api/v1 endpoint group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/personal-dashboard/internal/handler"
	"github.com/deppfellow/personal-dashboard/internal/middleware"
	"github.com/deppfellow/personal-dashboard/internal/server"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	// After the context enhancer so rejections are logged with the request logger.
	if middlewares.RateLimit.Enabled() {
		router.Use(middlewares.RateLimit.Limiter())
	}

	registerSystemRoutes(router, s, h)

	v1 := router.Group("/api/v1")
	registerExpenseRoutes(v1, s, h)
	registerDashboardRoutes(v1, h)

	return router
}

func registerExpenseRoutes(g *echo.Group, s *server.Server, h *handler.Handlers) {
	g.Any("/expenses", h.Expense.Dispatch)
	g.Any("/expenses/:expenseId", h.Expense.Dispatch)

	if s.Config.Expense.LegacyRoutes {
		g.GET("/expenses/category/:category", h.Expense.ByCategory)
	}
}

func registerDashboardRoutes(g *echo.Group, h *handler.Handlers) {
	g.Any("/github", h.Activity.Dispatch)
	g.Any("/news", h.News.Serve())
	g.Any("/weather", h.Weather.Serve())
}
