package handler

import (
	"strconv"
	"strings"
	"time"

	"skillmatch/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func parseUUIDParam(c fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(key)))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+key, nil, err)
	}
	return id, nil
}

// parseOptionalUUID returns uuid.Nil for an empty value.
func parseOptionalUUID(raw, field string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+field, nil, err)
	}
	return id, nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+key, nil, err)
	}
	return v, nil
}

func parseQueryTime(c fiber.Ctx, key string) (*time.Time, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+key, nil, err)
	}
	return &t, nil
}

func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return nil
}
