package complaint

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "complaint:"

// Bridge mirrors thread events through redis pub/sub so subscribers connected
// to other instances still receive them. Local delivery also goes through
// redis; the bridge's Run loop is the single writer into the broker.
type Bridge struct {
	rdb    *redis.Client
	broker *Broker
	logger *zap.Logger
}

func NewBridge(rdb *redis.Client, broker *Broker, logger ...*zap.Logger) *Bridge {
	l := zap.L().Named("complaint.bridge")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("complaint.bridge")
	}
	return &Bridge{rdb: rdb, broker: broker, logger: l}
}

// Publish sends the event through redis. When redis is unavailable the event
// falls back to the local broker so single-instance deployments keep working.
func (b *Bridge) Publish(ctx context.Context, complaintID string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		b.logger.Warn("event marshal failed", zap.Error(err))
		return
	}
	if err := b.rdb.Publish(ctx, channelPrefix+complaintID, payload).Err(); err != nil {
		b.logger.Warn("redis publish failed, delivering locally",
			zap.String("complaint_id", complaintID),
			zap.Error(err),
		)
		b.broker.Publish(complaintID, ev)
	}
}

// Run consumes the redis channels and fans out to local subscribers. Blocks
// until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	sub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			complaintID := strings.TrimPrefix(msg.Channel, channelPrefix)
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("event unmarshal failed",
					zap.String("channel", msg.Channel),
					zap.Error(err),
				)
				continue
			}
			b.broker.Publish(complaintID, ev)
		}
	}
}
