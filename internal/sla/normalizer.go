// Package sla derives due times and SLA status for raw ticket records.
package sla

import (
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/servicedesk/sla-agent/internal/domain"
)

const defaultRawStatus = "ok"

// timestampLayouts are tried in order. Layouts without a zone parse as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. Naive timestamps are assumed UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Normalizer converts raw records into normalized tickets.
type Normalizer struct {
	now    func() time.Time
	logger *zap.Logger
}

// Option customizes a Normalizer.
type Option func(*Normalizer)

// WithClock overrides the clock used to capture "now" for a batch.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

// WithLogger sets the logger used for ingestion warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(n *Normalizer) { n.logger = logger }
}

// NewNormalizer builds a Normalizer using the wall clock by default.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	return n
}

// NormalizeAll normalizes a batch against a single captured "now".
func (n *Normalizer) NormalizeAll(raw []domain.RawTicket) []domain.Ticket {
	now := n.now().UTC()
	tickets := make([]domain.Ticket, 0, len(raw))
	for _, r := range raw {
		ticket := Normalize(r, now)
		if !ticket.Priority.Known() {
			n.logger.Warn("unrecognized ticket priority",
				zap.String("ticket_id", ticket.ID),
				zap.String("priority", string(ticket.Priority)))
		}
		tickets = append(tickets, ticket)
	}
	return tickets
}

// Normalize converts one raw record relative to now.
func Normalize(r domain.RawTicket, now time.Time) domain.Ticket {
	ticket := domain.Ticket{
		ID:         r.Field("id", "ticket_id"),
		Title:      r.Field("title"),
		Priority:   domain.ParsePriority(r.Field("priority")),
		AssignedTo: r.Field("assigned_to", "assignee"),
		CreatedAt:  r.OptionalField("created_at"),
	}
	if ticket.AssignedTo == "" {
		ticket.AssignedTo = "Unassigned"
	}

	rawStatus := strings.ToLower(r.Field("status"))
	if rawStatus == "" {
		rawStatus = defaultRawStatus
	}

	budget := ticket.Priority.Budget()
	due := DueTime(r.Field("sla_due", "due_at"), r.Field("created_at"), budget, now)
	hoursLeft := due.Sub(now).Hours()

	ticket.SLADue = due
	// slightly overdue tickets round to -0 and are still breached
	ticket.HoursLeft = math.Round(hoursLeft*100) / 100
	ticket.Status = Classify(rawStatus, hoursLeft, budget)
	return ticket
}

// DueTime resolves the SLA deadline: an explicit due time wins, then
// created+budget, then now+budget.
func DueTime(rawDue, rawCreated string, budget time.Duration, now time.Time) time.Time {
	if due, ok := ParseTimestamp(rawDue); ok {
		return due
	}
	if created, ok := ParseTimestamp(rawCreated); ok {
		return created.Add(budget)
	}
	return now.Add(budget)
}

// Classify maps a lowercased raw status and remaining hours to an SLA status.
// The breach check always takes precedence over the at-risk check.
func Classify(rawStatus string, hoursLeft float64, budget time.Duration) domain.SLAStatus {
	if strings.Contains(rawStatus, "breach") || hoursLeft < 0 {
		return domain.SLAStatusBreached
	}
	if strings.Contains(rawStatus, "risk") || hoursLeft <= budget.Hours() {
		return domain.SLAStatusAtRisk
	}
	return domain.SLAStatusOK
}
