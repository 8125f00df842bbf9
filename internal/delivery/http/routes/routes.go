package routes

import (
	"skillmatch/internal/delivery/http/handler"
	"skillmatch/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// Registry is every HTTP surface the server mounts. Nil members are skipped.
type Registry struct {
	Auth          *handler.AuthHandler
	Profiles      *handler.ProfileHandler
	Skills        *handler.SkillHandler
	Jobs          *handler.JobsHandler
	Matches       *handler.MatchHandler
	Conversations *handler.ConversationHandler
	Health        *handler.HealthHandler

	AuthMiddleware *middleware.AuthMiddleware
	Metrics        fiber.Handler
	WebSocket      fiber.Handler
	CronSecret     string
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.registerOps(app)
	r.registerAPI(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app, r.CronSecret)
	}
	if r.Metrics != nil {
		app.Get("/metrics", r.Metrics)
	}
	if r.WebSocket != nil {
		app.Get("/ws", r.WebSocket)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r)
}
