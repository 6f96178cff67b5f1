package events

import "time"

const LeaveDecisionTopic = "portal.leave.decision.v1"

// LeaveDecisionEvent is emitted when a leave request leaves PENDING, so the
// notification consumer can tell the requester about the outcome.
type LeaveDecisionEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	Status     string    `json:"status"`
	DecidedBy  string    `json:"decided_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
