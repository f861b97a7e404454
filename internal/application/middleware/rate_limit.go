package middleware

import (
	"net/http"
	"strconv"

	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/redis"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RateLimit answers 429 once a client IP exceeds its window. Limiter failures let the request through.
func RateLimit(limiter *redis.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipQuietPaths(c) {
				return next(c)
			}

			result, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn(msg.GetMessage("app.rate-limit-failed"), zap.Error(err))
				return next(c)
			}

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
			header.Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
			header.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": msg.GetMessage("app.rate-limited")})
			}
			return next(c)
		}
	}
}
