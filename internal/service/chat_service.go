package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/servicedesk/sla-agent/internal/domain"
	"github.com/servicedesk/sla-agent/internal/store"
)

var ticketRefPattern = regexp.MustCompile(`(inc|tckt|ticket)[-_ ]?(\d{1,4})`)

const canonicalTicketPrefix = "INC-"

type chatRoute struct {
	keywords []string
	reply    func(snap *store.Snapshot, summary Summary) string
}

func (r chatRoute) matches(msg string) bool {
	for _, k := range r.keywords {
		if msg == k {
			return true
		}
	}
	return false
}

// ChatService answers a fixed set of keyword questions about the snapshot.
// Exact keywords are checked first, then ticket references, then the fallback.
type ChatService struct {
	snapshots      SnapshotReader
	supportContact string
	routes         []chatRoute
}

// NewChatService builds the keyword routing table.
func NewChatService(snapshots SnapshotReader, supportContact string) *ChatService {
	if snapshots == nil {
		panic("service: snapshot reader is required")
	}
	c := &ChatService{snapshots: snapshots, supportContact: supportContact}
	c.routes = []chatRoute{
		{keywords: []string{"menu", "help", "options", "list"}, reply: c.menu},
		{keywords: []string{"1", "one"}, reply: breachedReply},
		{keywords: []string{"2", "two"}, reply: atRiskReply},
		{keywords: []string{"3", "three"}, reply: achievementReply},
		{keywords: []string{"4", "four"}, reply: priorityReply},
	}
	return c
}

// Reply returns the response for a free-text message. It never fails.
func (c *ChatService) Reply(message string) string {
	msg := strings.ToLower(strings.TrimSpace(message))
	snap := c.snapshots.Current()

	for _, route := range c.routes {
		if route.matches(msg) {
			return route.reply(snap, Summarize(snap))
		}
	}

	if m := ticketRefPattern.FindStringSubmatch(msg); m != nil {
		return ticketReply(snap, TicketIDFromDigits(m[2]))
	}

	return fmt.Sprintf("Sorry, I didn't understand that. Type 'menu' to see available questions.\n"+
		"For other queries, please email %s", c.supportContact)
}

// TicketIDFromDigits zero-pads digits to three places behind the INC- prefix.
func TicketIDFromDigits(digits string) string {
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	return canonicalTicketPrefix + digits
}

func (c *ChatService) menu(*store.Snapshot, Summary) string {
	return "Here are the available questions you can ask:\n" +
		"1. How many SLAs are breached?\n" +
		"2. Which SLAs are at risk?\n" +
		"3. What is the current SLA achievement rate?\n" +
		"4. How many high, medium, and low priority tickets?\n" +
		"5. Show ticket details by ID (e.g., INC-001)\n\n" +
		"For other queries, please email " + c.supportContact
}

func breachedReply(_ *store.Snapshot, s Summary) string {
	return fmt.Sprintf("There are currently %d breached SLAs out of %d total tickets.", s.Breached, s.Total)
}

func atRiskReply(_ *store.Snapshot, s Summary) string {
	return fmt.Sprintf("There are %d tickets currently at risk of breaching SLA.", s.ByStatus[string(domain.SLAStatusAtRisk)])
}

func achievementReply(_ *store.Snapshot, s Summary) string {
	return fmt.Sprintf("The current SLA achievement rate is %s%%.", strconv.FormatFloat(s.AchievementRate, 'f', 1, 64))
}

func priorityReply(_ *store.Snapshot, s Summary) string {
	return fmt.Sprintf("High: %d, Medium: %d, Low: %d. Total tickets: %d.",
		s.ByPriority[string(domain.TicketPriorityHigh)],
		s.ByPriority[string(domain.TicketPriorityMedium)],
		s.ByPriority[string(domain.TicketPriorityLow)],
		s.Total)
}

func ticketReply(snap *store.Snapshot, id string) string {
	t, ok := snap.Find(id)
	if !ok {
		return fmt.Sprintf("Sorry, I couldn't find a ticket with ID %s.", id)
	}
	return fmt.Sprintf("Ticket %s: %s. Status: %s. Priority: %s. Assigned to: %s. Hours left: %s.",
		t.ID, t.Title, t.Status, t.Priority, t.AssignedTo, formatHours(t.HoursLeft))
}

// formatHours keeps at least one decimal place, so 2 renders as "2.0".
func formatHours(h float64) string {
	s := strconv.FormatFloat(h, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
