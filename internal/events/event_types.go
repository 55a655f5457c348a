package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSnapshotPublished  EventType = "snapshot_published"
	EventSnapshotLoadFailed EventType = "snapshot_load_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps a new event with an id and the current time.
func NewEvent(eventType EventType, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// SnapshotPublishedPayload describes a freshly published ticket snapshot.
type SnapshotPublishedPayload struct {
	Source      string   `json:"source"`
	Total       int      `json:"total"`
	Breached    int      `json:"breached"`
	AtRisk      int      `json:"at_risk"`
	BreachedIDs []string `json:"breached_ids"`
	AtRiskIDs   []string `json:"at_risk_ids"`
}

// SnapshotLoadFailedPayload describes a failed dataset load.
type SnapshotLoadFailedPayload struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}
