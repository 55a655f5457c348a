package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/servicedesk/sla-agent/internal/api/dto"
)

var endpoints = []string{
	"/health",
	"/tickets",
	"/metrics/summary",
	"/search?q=<keyword>",
	"/tickets/<ticket_id>",
	"/chat (POST)",
}

// HealthHandler serves the banner and liveness endpoints.
type HealthHandler struct {
	serviceName string
	now         func() time.Time
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, now: time.Now}
}

// Index GET /.
func (h *HealthHandler) Index(c *fiber.Ctx) error {
	return c.JSON(dto.IndexResponse{
		Message:   h.serviceName + " backend is running",
		Endpoints: endpoints,
	})
}

// Health GET /health.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status: "ok",
		Time:   h.now().UTC().Format(time.RFC3339Nano),
	})
}
