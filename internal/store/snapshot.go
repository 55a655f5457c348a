package store

import (
	"time"

	"github.com/servicedesk/sla-agent/internal/domain"
)

// Snapshot is an immutable, normalized view of the dataset. Callers must not
// modify the Tickets slice.
type Snapshot struct {
	Tickets  []domain.Ticket
	Source   string
	LoadedAt time.Time
	byID     map[string]int
}

// NewSnapshot indexes tickets by id; the first occurrence of an id wins.
func NewSnapshot(tickets []domain.Ticket, source string, loadedAt time.Time) *Snapshot {
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	byID := make(map[string]int, len(tickets))
	for i := range tickets {
		if _, dup := byID[tickets[i].ID]; !dup {
			byID[tickets[i].ID] = i
		}
	}
	return &Snapshot{Tickets: tickets, Source: source, LoadedAt: loadedAt, byID: byID}
}

// Find returns the ticket with exactly the given id.
func (s *Snapshot) Find(id string) (domain.Ticket, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return domain.Ticket{}, false
	}
	return s.Tickets[idx], true
}

// Len reports the number of tickets.
func (s *Snapshot) Len() int {
	return len(s.Tickets)
}
