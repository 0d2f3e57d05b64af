package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/api/http/handlers"
	"github.com/spec-kit/support-ticket-service/internal/auth"
	"github.com/spec-kit/support-ticket-service/internal/config"
	"github.com/spec-kit/support-ticket-service/internal/domain"
	"github.com/spec-kit/support-ticket-service/internal/observability"
)

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Tokens  *auth.TokenIssuer

	Auth    *handlers.AuthHandler
	Tickets *handlers.TicketsHandler
	AI      *handlers.AIHandler
	Health  *handlers.HealthHandler
}

// NewApp builds the fiber application with all routes registered.
func NewApp(deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.Config.App.Name,
		ReadTimeout:  deps.Config.App.RequestTimeout(),
		WriteTimeout: deps.Config.App.RequestTimeout(),
		ErrorHandler: ErrorHandler(deps.Logger),
	})

	app.Use(recover.New())
	app.Use(RequestLogger(deps.Logger, deps.Metrics))

	app.Get("/health", deps.Health.Health)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", deps.Auth.Register)
	authGroup.Post("/login", deps.Auth.Login)

	authed := auth.RequireAuth(deps.Tokens)
	staff := auth.RequireRole(domain.RoleAgent, domain.RoleAdmin)

	tickets := app.Group("/tickets", authed)
	tickets.Post("/", deps.Tickets.Create)
	tickets.Get("/", deps.Tickets.List)
	tickets.Get("/:id", deps.Tickets.Get)
	tickets.Get("/:id/history", deps.Tickets.History)
	tickets.Post("/:id/status", staff, deps.Tickets.UpdateStatus)
	tickets.Post("/:id/priority", staff, deps.Tickets.UpdatePriority)
	tickets.Post("/:id/assign", auth.RequireRole(domain.RoleAdmin), deps.Tickets.Assign)
	tickets.Post("/:id/reanalyze", staff, deps.Tickets.Reanalyze)

	aiGroup := app.Group("/ai", authed)
	aiGroup.Post("/categorize", deps.AI.Categorize)
	aiGroup.Get("/insights/:ticketId", staff, deps.AI.Insights)

	return app
}
