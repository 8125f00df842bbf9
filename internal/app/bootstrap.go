package app

import (
	"context"
	"fmt"
	"strings"

	"skillmatch/internal/delivery/http/handler"
	"skillmatch/internal/delivery/http/middleware"
	"skillmatch/internal/delivery/http/routes"
	"skillmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app over an already wired container. ctx bounds the
// lifetime of websocket connections.
func New(ctx context.Context, c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(ctx, f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(ctx context.Context, c *Container) (*App, func() error, error) {
	if c == nil {
		return nil, nil, fmt.Errorf("nil container")
	}
	app := New(ctx, c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(cors.New(cors.Config{AllowOrigins: c.CORSOrigins()}))

	accessMw := middleware.NewAccessLogMiddleware(c.Logger, c.Metrics)
	app.Use(accessMw.Middleware())

	errMw := middleware.NewErrorMiddleware(c.Logger)
	app.Use(errMw.Middleware())
}

func registerRoutes(ctx context.Context, app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	wsHandler := ws.NewHandler(ctx, c.Hub, c.JWT, c.Conversations, c.CORSOrigins(), c.Logger)

	reg := &routes.Registry{
		Auth:          handler.NewAuthHandler(c.Auth),
		Profiles:      handler.NewProfileHandler(c.Profiles),
		Skills:        handler.NewSkillHandler(c.Skills),
		Jobs:          handler.NewJobsHandler(c.Jobs),
		Matches:       handler.NewMatchHandler(c.Candidates, c.Swipes, c.Matches, c.Conversations, c.Logger),
		Conversations: handler.NewConversationHandler(c.Conversations),
		Health:        handler.NewHealthHandler(c.DBPing),

		AuthMiddleware: middleware.NewAuthMiddleware(c.JWT),
		Metrics:        adaptor.HTTPHandler(c.Metrics.Handler()),
		WebSocket:      wsHandler.HandleConnect,
		CronSecret:     c.Config.Scheduler.CronSecret,
	}
	reg.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
