package dto

import (
	"time"

	"github.com/servicedesk/sla-agent/internal/domain"
)

// TicketResponse is the wire form of a normalized ticket.
type TicketResponse struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Priority   domain.TicketPriority `json:"priority"`
	Status     domain.SLAStatus      `json:"status"`
	AssignedTo string                `json:"assigned_to"`
	CreatedAt  *string               `json:"created_at"`
	SLADue     string                `json:"sla_due"`
	HoursLeft  float64               `json:"hours_left"`
}

// TicketListResponse is returned by GET /tickets.
type TicketListResponse struct {
	Count   int              `json:"count"`
	Tickets []TicketResponse `json:"tickets"`
}

// SearchResponse is returned by GET /search.
type SearchResponse struct {
	Query   string           `json:"query"`
	Count   int              `json:"count"`
	Results []TicketResponse `json:"results"`
}

// SummaryResponse is returned by GET /metrics/summary.
type SummaryResponse struct {
	TotalTickets       int            `json:"total_tickets"`
	ByPriority         map[string]int `json:"by_priority"`
	ByStatus           map[string]int `json:"by_status"`
	BreachedCount      int            `json:"breached_count"`
	SLAAchievementRate float64        `json:"sla_achievement_rate_pct"`
}

// ChatRequest payload.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse payload.
type ChatResponse struct {
	Response string `json:"response"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// IndexResponse is returned by GET /.
type IndexResponse struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

// NewTicketResponse maps a normalized ticket to its wire form.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:         t.ID,
		Title:      t.Title,
		Priority:   t.Priority,
		Status:     t.Status,
		AssignedTo: t.AssignedTo,
		CreatedAt:  t.CreatedAt,
		SLADue:     t.SLADue.UTC().Format(time.RFC3339),
		HoursLeft:  t.HoursLeft,
	}
}

// NewTicketResponses maps a slice, never returning nil.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, NewTicketResponse(t))
	}
	return out
}
