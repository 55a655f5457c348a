package service

import (
	"time"

	"github.com/servicedesk/sla-agent/internal/domain"
	"github.com/servicedesk/sla-agent/internal/store"
)

type staticSnapshot struct {
	snap *store.Snapshot
}

func (s staticSnapshot) Current() *store.Snapshot { return s.snap }

func snapshotOf(tickets ...domain.Ticket) staticSnapshot {
	return staticSnapshot{snap: store.NewSnapshot(tickets, "test", time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))}
}

func sampleTickets() staticSnapshot {
	return snapshotOf(
		domain.Ticket{ID: "INC-001", Title: "Email outage", Priority: domain.TicketPriorityHigh, Status: domain.SLAStatusBreached, AssignedTo: "alex", HoursLeft: -1.5},
		domain.Ticket{ID: "INC-002", Title: "Slow VPN", Priority: domain.TicketPriorityMedium, Status: domain.SLAStatusAtRisk, AssignedTo: "Unassigned", HoursLeft: 3.25},
		domain.Ticket{ID: "INC-003", Title: "New laptop request", Priority: domain.TicketPriorityLow, Status: domain.SLAStatusOK, AssignedTo: "sam", HoursLeft: 40},
		domain.Ticket{ID: "REQ-100", Title: "Incident review", Priority: domain.TicketPriorityHigh, Status: domain.SLAStatusAtRisk, AssignedTo: "kim", HoursLeft: 2},
	)
}
