package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-portal/internal/events"
	"go-portal/internal/messaging/kafka"
)

type Entry struct {
	RequestID string
	ActorID   string
	Action    string
	Status    int
	Meta      map[string]any
}

// Recorder is the audit trail sink. Implementations must never return an
// error to the caller: audit logging is log-and-continue by policy.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type outboxRecorder struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

// NewOutboxRecorder queues audit entries on the transactional outbox so the
// relay worker ships them to the audit topic.
func NewOutboxRecorder(outbox kafka.OutboxRepository, logger ...*zap.Logger) Recorder {
	l := zap.L().Named("audit.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.recorder")
	}
	return &outboxRecorder{outbox: outbox, logger: l}
}

func (r *outboxRecorder) Record(ctx context.Context, entry Entry) {
	event := events.AuditEvent{
		EventType:  "api_call",
		RequestID:  entry.RequestID,
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		Status:     entry.Status,
		Meta:       entry.Meta,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("marshal audit event failed", zap.Error(err))
		return
	}

	err = r.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     entry.RequestID,
		AggregateType: "audit",
		AggregateID:   entry.ActorID,
		EventType:     event.EventType,
		Topic:         events.AuditTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		// Swallowed on purpose: an audit failure never blocks the request.
		r.logger.Error("enqueue audit event failed",
			zap.String("request_id", entry.RequestID),
			zap.Error(err),
		)
	}
}

type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Entry) {}
