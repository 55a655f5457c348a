package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicedesk/sla-agent/internal/api/dto"
	"github.com/servicedesk/sla-agent/internal/service"
)

// TicketsHandler serves read-only ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets := h.service.List(service.TicketFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	})
	items := dto.NewTicketResponses(tickets)
	return c.JSON(dto.TicketListResponse{Count: len(items), Tickets: items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// Search GET /search?q=.
func (h *TicketsHandler) Search(c *fiber.Ctx) error {
	query, results, err := h.service.Search(c.Query("q"))
	if err != nil {
		return err
	}
	items := dto.NewTicketResponses(results)
	return c.JSON(dto.SearchResponse{Query: query, Count: len(items), Results: items})
}
