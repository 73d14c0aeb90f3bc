package changefeed

import (
	"context"
	"sync"

	redislib "github.com/redis/go-redis/v9"

	"github.com/united17/relief-portal/pkg/logger"
	"github.com/united17/relief-portal/pkg/metrics"
)

const subscriberBuffer = 8

// Hub fans redis changefeed messages out to connected SSE clients. Slow
// clients get events dropped rather than stalling the loop; a dropped ping
// only delays a refetch until the next event.
type Hub struct {
	logg    *logger.Logger
	metrics *metrics.ChangefeedMetrics

	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewHub builds an empty hub.
func NewHub(logg *logger.Logger, m *metrics.ChangefeedMetrics) *Hub {
	return &Hub{
		logg:    logg,
		metrics: m,
		subs:    make(map[chan Event]struct{}),
	}
}

// Subscribe registers a listener. The returned cancel must be called when the
// client disconnects.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	h.metrics.AddListeners(1)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
			h.metrics.AddListeners(-1)
		})
	}
	return ch, cancel
}

// Broadcast delivers the event to every subscriber without blocking.
func (h *Hub) Broadcast(evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
			h.metrics.IncDropped()
		}
	}
}

// ListenerCount reports connected subscribers.
func (h *Hub) ListenerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Run consumes the redis changefeed channel until ctx is cancelled. The
// message channel comes from redis.Client.SubscribeChanges.
func (h *Hub) Run(ctx context.Context, messages <-chan *redislib.Message) error {
	if h.logg != nil {
		h.logg.Info(ctx, "changefeed hub started")
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			evt, err := DecodeEvent([]byte(msg.Payload))
			if err != nil {
				if h.logg != nil {
					h.logg.Error(ctx, "dropping malformed changefeed payload", err)
				}
				continue
			}
			h.Broadcast(evt)
		}
	}
}
