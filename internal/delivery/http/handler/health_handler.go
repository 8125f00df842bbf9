package handler

import (
	"context"
	"time"

	"skillmatch/internal/delivery/http/middleware"
	"skillmatch/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// DBChecker runs the dependency ping on demand.
type DBChecker interface {
	Run(ctx context.Context) error
}

type HealthHandler struct {
	db      DBChecker
	started time.Time
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func NewHealthHandler(db DBChecker) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// RegisterRoutes mounts the liveness probe openly and the dependency probe
// behind the cron secret.
func (h *HealthHandler) RegisterRoutes(r fiber.Router, cronSecret string) {
	if r == nil {
		return
	}

	r.Get("/health", h.HandleHealth)
	if h.db != nil {
		r.Get("/health/db", middleware.CronSecret(cronSecret), h.HandleDBHealth)
	}
}

func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Truncate(time.Second).String(),
	})
}

func (h *HealthHandler) HandleDBHealth(c fiber.Ctx) error {
	if err := h.db.Run(c.Context()); err != nil {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Database unreachable", middleware.RetryData{Retryable: true}, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, healthResponse{Status: "ok"})
}
