package events

import "time"

const AuditTopic = "portal.audit.v1"

type AuditEvent struct {
	EventType  string         `json:"event_type"`
	RequestID  string         `json:"request_id"`
	ActorID    string         `json:"actor_id"`
	Action     string         `json:"action"`
	Status     int            `json:"status"`
	Meta       map[string]any `json:"meta,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
