package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicedesk/sla-agent/internal/api/dto"
	"github.com/servicedesk/sla-agent/internal/service"
)

// MetricsHandler serves SLA aggregates.
type MetricsHandler struct {
	service *service.TicketService
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(ticketService *service.TicketService) *MetricsHandler {
	return &MetricsHandler{service: ticketService}
}

// Summary GET /metrics/summary.
func (h *MetricsHandler) Summary(c *fiber.Ctx) error {
	s := h.service.Summary()
	return c.JSON(dto.SummaryResponse{
		TotalTickets:       s.Total,
		ByPriority:         s.ByPriority,
		ByStatus:           s.ByStatus,
		BreachedCount:      s.Breached,
		SLAAchievementRate: s.AchievementRate,
	})
}
