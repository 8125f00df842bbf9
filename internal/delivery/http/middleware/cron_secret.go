package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v3"
)

// CronSecret guards scheduler-facing endpoints with a shared bearer secret.
// An empty secret leaves the route open.
func CronSecret(secret string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}
		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		return c.Next()
	}
}
