package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-portal/internal/events"
)

// Notifier delivers a decision notification to the requester. The default
// implementation just logs; mail/push transports plug in behind it.
type Notifier interface {
	NotifyLeaveDecision(ctx context.Context, event events.LeaveDecisionEvent) error
}

type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) NotifyLeaveDecision(ctx context.Context, event events.LeaveDecisionEvent) error {
	n.Logger.Named("notifier").Info("leave decision notification",
		zap.String("leave_id", event.LeaveID),
		zap.String("employee_id", event.EmployeeID),
		zap.String("status", event.Status),
		zap.String("decided_by", event.DecidedBy),
	)
	return nil
}

// ConsumeLeaveDecisions reads decision events and hands them to the notifier.
// Poison messages are committed and skipped so the partition keeps moving.
func ConsumeLeaveDecisions(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decision")
	log.Info("leave decision consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decision consumer stopped")
				return
			}
			log.Error("fetch leave decision message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecisionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave decision event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notifier.NotifyLeaveDecision(ctx, event); err != nil {
			log.Error("notify leave decision failed",
				zap.String("leave_id", event.LeaveID),
				zap.Error(err),
			)
			// Notification is best effort; do not re-deliver forever.
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decision message failed", zap.Error(err))
		}
	}
}
