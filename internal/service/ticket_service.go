package service

import (
	"math"
	"strings"

	"github.com/servicedesk/sla-agent/internal/domain"
	"github.com/servicedesk/sla-agent/internal/store"
	apperrors "github.com/servicedesk/sla-agent/pkg/util/errorutil"
)

// SnapshotReader exposes the currently published ticket snapshot.
type SnapshotReader interface {
	Current() *store.Snapshot
}

// TicketFilter holds optional, case-insensitive equality filters.
type TicketFilter struct {
	Status   string
	Priority string
}

// Summary aggregates SLA figures over a snapshot.
type Summary struct {
	Total           int
	ByPriority      map[string]int
	ByStatus        map[string]int
	Breached        int
	AchievementRate float64
}

// TicketService answers read-only queries over the ticket snapshot.
type TicketService struct {
	snapshots SnapshotReader
}

// NewTicketService constructs the service.
func NewTicketService(snapshots SnapshotReader) *TicketService {
	if snapshots == nil {
		panic("service: snapshot reader is required")
	}
	return &TicketService{snapshots: snapshots}
}

// List returns tickets matching every non-empty filter.
func (s *TicketService) List(filter TicketFilter) []domain.Ticket {
	snap := s.snapshots.Current()
	out := make([]domain.Ticket, 0, snap.Len())
	for _, t := range snap.Tickets {
		if filter.Status != "" && !strings.EqualFold(string(t.Status), filter.Status) {
			continue
		}
		if filter.Priority != "" && !strings.EqualFold(string(t.Priority), filter.Priority) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Summary aggregates the current snapshot.
func (s *TicketService) Summary() Summary {
	return Summarize(s.snapshots.Current())
}

// Search matches query case-insensitively against ticket title or id. It
// returns the normalized query alongside the results.
func (s *TicketService) Search(query string) (string, []domain.Ticket, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", nil, apperrors.NewValidationError("missing search query", map[string]any{"param": "q"})
	}
	snap := s.snapshots.Current()
	results := make([]domain.Ticket, 0)
	for _, t := range snap.Tickets {
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.ID), q) {
			results = append(results, t)
		}
	}
	return q, results, nil
}

// Get returns the ticket whose id matches exactly.
func (s *TicketService) Get(id string) (domain.Ticket, error) {
	ticket, ok := s.snapshots.Current().Find(id)
	if !ok {
		return domain.Ticket{}, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return ticket, nil
}

// Summarize counts tickets per priority and status bucket and computes the
// SLA achievement rate, which is 0 for an empty snapshot.
func Summarize(snap *store.Snapshot) Summary {
	summary := Summary{
		Total:      snap.Len(),
		ByPriority: make(map[string]int, len(domain.Priorities)),
		ByStatus:   make(map[string]int, len(domain.Statuses)),
	}
	for _, p := range domain.Priorities {
		summary.ByPriority[string(p)] = 0
	}
	for _, st := range domain.Statuses {
		summary.ByStatus[string(st)] = 0
	}
	for _, t := range snap.Tickets {
		summary.ByPriority[string(t.Priority)]++
		summary.ByStatus[string(t.Status)]++
	}
	summary.Breached = summary.ByStatus[string(domain.SLAStatusBreached)]
	if summary.Total > 0 {
		rate := 100 * float64(summary.Total-summary.Breached) / float64(summary.Total)
		summary.AchievementRate = math.Round(rate*10) / 10
	}
	return summary
}
