package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/servicedesk/sla-agent/internal/api/http/handlers"
	"github.com/servicedesk/sla-agent/internal/config"
	"github.com/servicedesk/sla-agent/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
	Metrics *handlers.MetricsHandler
	Chat    *handlers.ChatHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Index)
	app.Get("/health", cfg.Health.Health)

	app.Get("/tickets", cfg.Tickets.ListTickets)
	app.Get("/tickets/:id", cfg.Tickets.GetTicket)
	app.Get("/search", cfg.Tickets.Search)

	app.Get("/metrics/summary", cfg.Metrics.Summary)

	app.Post("/chat", cfg.Chat.Chat)
}

// NewApp builds the fiber application with middlewares and routes registered.
func NewApp(name string, logger *zap.Logger, metrics *observability.Metrics, corsCfg config.CORSConfig, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		UnescapePath:          true,
	})
	RegisterMiddlewares(app, logger, metrics, corsCfg)
	RegisterRoutes(app, routes)
	return app
}
