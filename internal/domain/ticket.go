package domain

import (
	"strings"
	"time"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityLow    TicketPriority = "Low"
)

// Priorities lists the recognized priorities in reporting order.
var Priorities = []TicketPriority{TicketPriorityHigh, TicketPriorityMedium, TicketPriorityLow}

// DefaultBudget applies to priorities outside the recognized set.
const DefaultBudget = 8 * time.Hour

var priorityBudgets = map[TicketPriority]time.Duration{
	TicketPriorityHigh:   4 * time.Hour,
	TicketPriorityMedium: 8 * time.Hour,
	TicketPriorityLow:    48 * time.Hour,
}

// Budget returns the SLA window for the priority.
func (p TicketPriority) Budget() time.Duration {
	if b, ok := priorityBudgets[p]; ok {
		return b
	}
	return DefaultBudget
}

// Known reports whether p is one of High, Medium or Low.
func (p TicketPriority) Known() bool {
	_, ok := priorityBudgets[p]
	return ok
}

// ParsePriority canonicalizes a recognized priority case-insensitively.
// Empty input yields Low; anything else unrecognized is returned verbatim.
func ParsePriority(raw string) TicketPriority {
	if raw == "" {
		return TicketPriorityLow
	}
	for _, p := range Priorities {
		if strings.EqualFold(raw, string(p)) {
			return p
		}
	}
	return TicketPriority(raw)
}

// SLAStatus is the derived SLA classification of a ticket.
type SLAStatus string

const (
	SLAStatusBreached SLAStatus = "breached"
	SLAStatusAtRisk   SLAStatus = "at-risk"
	SLAStatusOK       SLAStatus = "ok"
)

// Statuses lists every SLA status in reporting order.
var Statuses = []SLAStatus{SLAStatusBreached, SLAStatusAtRisk, SLAStatusOK}

// Ticket is the normalized, read-only view of a raw ticket record.
type Ticket struct {
	ID         string
	Title      string
	Priority   TicketPriority
	Status     SLAStatus
	AssignedTo string
	CreatedAt  *string
	SLADue     time.Time
	HoursLeft  float64
}
