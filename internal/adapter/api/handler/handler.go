package handler

import (
	"github.com/labstack/echo/v4"

	"marketcore/internal/adapter/api/middleware"
	"marketcore/internal/domain/entity"
	"marketcore/pkg/errors"
	"marketcore/pkg/locale"
)

const headerAcceptLanguage = "Accept-Language"

// Localization carries the display settings handlers fall back to when a
// request does not say otherwise.
type Localization struct {
	DefaultLanguage locale.Language
	THBRate         float64
}

func (l Localization) language(c echo.Context) locale.Language {
	if lang := c.QueryParam("lang"); lang != "" {
		return locale.Parse(lang, l.DefaultLanguage)
	}
	return locale.Parse(c.Request().Header.Get(headerAcceptLanguage), l.DefaultLanguage)
}

func viewer(c echo.Context) (entity.User, error) {
	u, ok := middleware.Viewer(c)
	if !ok {
		return entity.User{}, errors.Unauthorized("Missing viewer identity", nil)
	}
	return u, nil
}
