package middleware

import (
	"log/slog"
	"time"

	"skillmatch/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// HTTPObserver records request counts and latency. Optional.
type HTTPObserver interface {
	ObserveHTTP(route, method string, status int, elapsed time.Duration)
}

type AccessLogMiddleware struct {
	logger   *slog.Logger
	observer HTTPObserver
}

func NewAccessLogMiddleware(log *slog.Logger, observer HTTPObserver) *AccessLogMiddleware {
	return &AccessLogMiddleware{logger: logger.OrDiscard(log), observer: observer}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		err := c.Next()

		dur := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		if m.observer != nil {
			m.observer.ObserveHTTP(route, c.Method(), status, dur)
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelWarn
		}
		m.logger.LogAttrs(c.Context(), level, "http access",
			slog.String("rid", rid),
			slog.String("ip", c.IP()),
			slog.String("method", c.Method()),
			slog.String("path", c.OriginalURL()),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("latency", dur),
			slog.Int("resp_bytes", len(c.Response().Body())),
			slog.String("ua", c.Get(fiber.HeaderUserAgent)),
		)

		return err
	}
}
