package complaint

import (
	"sync"

	"go.uber.org/zap"
)

// Event is one server-push item on a complaint thread.
type Event struct {
	Name string `json:"name"`
	Data any    `json:"data"`
}

// Broker fans thread events out to live in-process subscribers. It is an
// injected service with an explicit lifecycle, not package state, so handlers
// and tests control exactly one instance each.
//
// A subscriber that cannot keep up is dropped on the first failed push; the
// per-complaint set is removed entirely once empty.
type Broker struct {
	mu     sync.Mutex
	subs   map[string]map[chan Event]struct{}
	logger *zap.Logger
}

func NewBroker(logger ...*zap.Logger) *Broker {
	l := zap.L().Named("complaint.broker")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("complaint.broker")
	}
	return &Broker{
		subs:   make(map[string]map[chan Event]struct{}),
		logger: l,
	}
}

func (b *Broker) Subscribe(complaintID string) chan Event {
	ch := make(chan Event, 8)

	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.subs[complaintID]
	if !ok {
		set = make(map[chan Event]struct{})
		b.subs[complaintID] = set
	}
	set[ch] = struct{}{}
	return ch
}

func (b *Broker) Unsubscribe(complaintID string, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(complaintID, ch)
}

func (b *Broker) Publish(complaintID string, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[complaintID] {
		select {
		case ch <- ev:
		default:
			// Slow consumer; drop it rather than block the thread.
			b.logger.Debug("dropping slow subscriber",
				zap.String("complaint_id", complaintID),
			)
			b.removeLocked(complaintID, ch)
		}
	}
}

// SubscriberCount reports live subscribers for a complaint.
func (b *Broker) SubscriberCount(complaintID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[complaintID])
}

func (b *Broker) removeLocked(complaintID string, ch chan Event) {
	set, ok := b.subs[complaintID]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	close(ch)
	if len(set) == 0 {
		delete(b.subs, complaintID)
	}
}
