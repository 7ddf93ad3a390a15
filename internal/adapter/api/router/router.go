package router

import (
	"github.com/labstack/echo/v4"

	"marketcore/internal/adapter/api/handler"
	"marketcore/internal/adapter/api/middleware"
)

type Handlers struct {
	Health    *handler.HealthHandler
	Product   *handler.ProductHandler
	Chat      *handler.ChatHandler
	Dashboard *handler.DashboardHandler
}

func Setup(e *echo.Echo, h Handlers, identity *middleware.IdentityMiddleware) {
	SetupHealthRouter(e, h.Health)
	SetupProductRouter(e, h.Product)
	SetupChatRouter(e, h.Chat, identity)
	SetupDashboardRouter(e, h.Dashboard, identity)
}
