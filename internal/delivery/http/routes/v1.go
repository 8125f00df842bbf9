package routes

import (
	v1 "skillmatch/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, reg *Registry) {
	if r == nil || reg == nil {
		return
	}

	v1.Register(r, v1.Handlers{
		Auth:          reg.Auth,
		Profiles:      reg.Profiles,
		Skills:        reg.Skills,
		Jobs:          reg.Jobs,
		Matches:       reg.Matches,
		Conversations: reg.Conversations,
		Protect:       reg.AuthMiddleware,
	})
}
