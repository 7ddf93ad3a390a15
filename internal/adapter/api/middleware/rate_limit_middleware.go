package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"marketcore/internal/infrastructure/ratelimit"
	"marketcore/pkg/errors"
	"marketcore/pkg/logger"
	"marketcore/pkg/response"
)

// RateLimit throttles requests per client IP.
func RateLimit(limiter *ratelimit.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			allowed, wait := limiter.Allow(ip, ratelimit.ActionDefault)
			if !allowed {
				logger.With("ip", ip, "path", c.Path()).Warnf("Request rate limited, retry in %v", wait)
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				return response.Error(c, errors.New("TOO_MANY_REQUESTS", "Rate limit exceeded", http.StatusTooManyRequests, nil))
			}
			return next(c)
		}
	}
}
