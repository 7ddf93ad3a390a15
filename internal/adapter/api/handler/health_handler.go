package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	dataSource string
}

func NewHealthHandler(dataSource string) *HealthHandler {
	return &HealthHandler{dataSource: dataSource}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":      "ok",
		"data_source": h.dataSource,
		"time":        time.Now().Format(time.RFC3339),
	})
}
