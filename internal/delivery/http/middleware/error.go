package middleware

import (
	"errors"
	"log/slog"

	"skillmatch/internal/pkg/logger"
	"skillmatch/internal/pkg/response"
	"skillmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// RetryData marks a failure the client may retry.
type RetryData struct {
	Retryable bool `json:"retryable"`
}

type FieldsData struct {
	Fields map[string]string `json:"fields"`
}

// FromUsecase maps the usecase error taxonomy onto HTTP. notFound overrides
// the 404 message where the route knows what went missing.
func FromUsecase(err error, notFound string) *AppError {
	var verr *usecase.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		return NewAppError(fiber.StatusUnprocessableEntity, "Validation failed", FieldsData{Fields: verr.Fields}, err)
	case errors.Is(err, usecase.ErrUnauthenticated):
		return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		if notFound == "" {
			notFound = "Not found"
		}
		return NewAppError(fiber.StatusNotFound, notFound, nil, err)
	case errors.Is(err, usecase.ErrValidation):
		return NewAppError(fiber.StatusUnprocessableEntity, "Validation failed", nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return NewAppError(fiber.StatusConflict, "Conflict", nil, err)
	case errors.Is(err, usecase.ErrDataAccess):
		return NewAppError(fiber.StatusServiceUnavailable, "Temporarily unavailable, please retry", RetryData{Retryable: true}, err)
	default:
		return NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

type ErrorMiddleware struct {
	logger *slog.Logger
}

func NewErrorMiddleware(log *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger.OrDiscard(log)}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered", slog.Any("panic", r), slog.String("path", c.Path()))
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= 500 {
			m.logger.Error("request failed",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.Int("status", status),
				slog.Any("err", err),
			)
		}
		return response.Error(c, status, msg, data)
	}
}

func normalizeError(err error) (int, string, any) {
	if err == nil {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status <= 0 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessage(status)
		}
		// 503 is surfaced so clients can offer a retry; other 5xx stay opaque.
		if status >= 500 && status != fiber.StatusServiceUnavailable {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		return status, msg, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessage(status)
		}
		return status, msg, nil
	}

	if ae := FromUsecase(err, ""); ae.StatusCode != fiber.StatusInternalServerError {
		return normalizeError(ae)
	}
	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}
