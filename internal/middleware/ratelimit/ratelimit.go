package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Decision is the outcome of consuming one hit against a limit.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter consumes one hit for a key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Config tunes the middleware.
type Config struct {
	Limiter Limiter
	// KeyPrefix namespaces the counter, e.g. "ratelimit:checkout:".
	KeyPrefix string
	Logger    *zap.Logger
}

// Middleware limits requests per client ip. When the limiter backend is
// unavailable the request is allowed through; losing rate limiting is
// better than losing checkout.
func Middleware(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := clientIP(c)

			decision, err := cfg.Limiter.Allow(c.Request().Context(), cfg.KeyPrefix+ip)
			if err != nil {
				cfg.Logger.Warn("Rate limiter unavailable, failing open",
					zap.String("ip", ip),
					zap.Error(err))
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			c.Response().Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

			if !decision.Allowed {
				cfg.Logger.Warn("Rate limit exceeded",
					zap.String("ip", ip),
					zap.String("path", c.Request().URL.Path))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error": "Too many requests. Please try again later.",
					"code":  "RATE_LIMITED",
				})
			}

			return next(c)
		}
	}
}

// clientIP resolves the caller's ip: first X-Forwarded-For hop, then
// X-Real-Ip, then the socket address.
func clientIP(c echo.Context) string {
	if fwd := c.Request().Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	if real := c.Request().Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	return c.RealIP()
}
