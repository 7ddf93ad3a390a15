package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"marketcore/internal/domain/entity"
	"marketcore/pkg/errors"
	"marketcore/pkg/response"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	viewerKey = "viewer"
)

// IdentityMiddleware trusts the caller-supplied identity headers. It stands
// in for a real authentication layer.
type IdentityMiddleware struct{}

func NewIdentityMiddleware() *IdentityMiddleware {
	return &IdentityMiddleware{}
}

func (m *IdentityMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
		if userID == "" {
			return response.Error(c, errors.Unauthorized(HeaderUserID+" header is required", nil))
		}

		role := entity.Role(strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderUserRole))))
		if role != entity.RoleSeller {
			role = entity.RoleBuyer
		}

		c.Set("uid", userID)
		c.Set(viewerKey, entity.User{ID: userID, Role: role})
		return next(c)
	}
}

// Viewer returns the identity stored by Identify.
func Viewer(c echo.Context) (entity.User, bool) {
	u, ok := c.Get(viewerKey).(entity.User)
	return u, ok
}
