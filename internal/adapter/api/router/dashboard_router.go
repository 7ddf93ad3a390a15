package router

import (
	"github.com/labstack/echo/v4"

	"marketcore/internal/adapter/api/handler"
	"marketcore/internal/adapter/api/middleware"
)

func SetupDashboardRouter(e *echo.Echo, dashboardHandler *handler.DashboardHandler, identity *middleware.IdentityMiddleware) {
	dashboard := e.Group("/v1/dashboard")
	dashboard.Use(identity.Identify)
	dashboard.GET("", dashboardHandler.GetStats)
}
