package changefeed

import (
	"context"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/united17/relief-portal/pkg/logger"
	"github.com/united17/relief-portal/pkg/metrics"
)

type changeSubscription interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

type relaySink interface {
	PublishChange(ctx context.Context, payload string) error
}

// Relay consumes change events from the broker subscription and republishes
// them on the redis channel the SSE endpoint listens on. Running it as a
// separate worker keeps API instances stateless: every instance sees every
// event through redis regardless of which one handled the write.
type Relay struct {
	sub     changeSubscription
	sink    relaySink
	logg    *logger.Logger
	metrics *metrics.ChangefeedMetrics
}

// NewRelay wires the broker subscription to the redis sink.
func NewRelay(sub changeSubscription, sink relaySink, logg *logger.Logger, m *metrics.ChangefeedMetrics) (*Relay, error) {
	if sub == nil {
		return nil, fmt.Errorf("change subscription is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("relay sink is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Relay{sub: sub, sink: sink, logg: logg, metrics: m}, nil
}

// Run blocks consuming the subscription until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	r.logg.Info(ctx, "changefeed relay started")
	return r.sub.Receive(ctx, r.handle)
}

func (r *Relay) handle(ctx context.Context, msg *pubsub.Message) {
	evt, err := DecodeEvent(msg.Data)
	if err != nil {
		// Malformed events are acked, redelivery cannot fix them.
		r.logg.Error(ctx, "dropping malformed change event", err)
		msg.Ack()
		return
	}

	logCtx := r.logg.WithFields(ctx, map[string]any{"entity": evt.Entity, "action": evt.Action})
	if err := r.sink.PublishChange(ctx, string(msg.Data)); err != nil {
		r.logg.Error(logCtx, "relaying change event to redis", err)
		msg.Nack()
		return
	}

	r.metrics.IncRelayed(evt.Entity)
	r.logg.Debug(logCtx, "change event relayed")
	msg.Ack()
}
