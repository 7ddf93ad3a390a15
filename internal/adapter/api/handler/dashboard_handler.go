package handler

import (
	"github.com/labstack/echo/v4"

	"marketcore/internal/usecase"
	"marketcore/pkg/response"
)

type DashboardHandler struct {
	dashboardUseCase    *usecase.DashboardUseCase
	conversationUseCase *usecase.ConversationUseCase
	loc                 Localization
}

func NewDashboardHandler(dashboardUseCase *usecase.DashboardUseCase, conversationUseCase *usecase.ConversationUseCase, loc Localization) *DashboardHandler {
	return &DashboardHandler{
		dashboardUseCase:    dashboardUseCase,
		conversationUseCase: conversationUseCase,
		loc:                 loc,
	}
}

func (h *DashboardHandler) GetStats(c echo.Context) error {
	user, err := viewer(c)
	if err != nil {
		return response.Error(c, err)
	}
	ctx := c.Request().Context()

	// Make sure a fresh viewer sees the same threads as the messages page.
	if _, err := h.conversationUseCase.Open(ctx, user, h.loc.language(c)); err != nil {
		return response.Error(c, err)
	}

	stats, err := h.dashboardUseCase.Stats(ctx, user)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stats)
}
