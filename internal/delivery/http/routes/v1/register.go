package v1

import (
	"skillmatch/internal/delivery/http/handler"
	"skillmatch/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	Profiles      *handler.ProfileHandler
	Skills        *handler.SkillHandler
	Jobs          *handler.JobsHandler
	Matches       *handler.MatchHandler
	Conversations *handler.ConversationHandler
	Protect       *middleware.AuthMiddleware
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	// The skill vocabulary is public so onboarding can render it.
	if h.Skills != nil {
		h.Skills.RegisterRoutes(r)
	}

	if h.Protect == nil {
		return
	}
	protected := r.Group("", h.Protect.Middleware())

	if h.Profiles != nil {
		h.Profiles.RegisterRoutes(protected)
	}
	if h.Jobs != nil {
		h.Jobs.RegisterRoutes(protected)
	}
	if h.Matches != nil {
		h.Matches.RegisterRoutes(protected)
	}
	if h.Conversations != nil {
		h.Conversations.RegisterRoutes(protected)
	}
}
