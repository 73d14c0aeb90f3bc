package changefeed

import (
	"context"
	"fmt"
	"sync"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/united17/relief-portal/pkg/logger"
	"github.com/united17/relief-portal/pkg/metrics"
)

const publishConfirmTimeout = 30 * time.Second

// Notifier is what write services call after a successful mutation. A nil
// Notifier is valid and drops events, so services never need to nil-check.
type Notifier interface {
	RecordChanged(ctx context.Context, entity, action string)
}

type changeTopic interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// Publisher pushes change events to the broker without blocking the request
// path. Publish confirmations are awaited on a background goroutine and
// failures are logged, not surfaced — a missed refetch ping is tolerable, a
// failed donation write is not.
type Publisher struct {
	topic   changeTopic
	logg    *logger.Logger
	metrics *metrics.ChangefeedMetrics

	wg sync.WaitGroup
}

// NewPublisher wires the change topic into a Notifier.
func NewPublisher(topic changeTopic, logg *logger.Logger, m *metrics.ChangefeedMetrics) (*Publisher, error) {
	if topic == nil {
		return nil, fmt.Errorf("change topic is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Publisher{topic: topic, logg: logg, metrics: m}, nil
}

// RecordChanged publishes an {entity, action} event.
func (p *Publisher) RecordChanged(ctx context.Context, entity, action string) {
	if p == nil {
		return
	}

	payload, err := Event{Entity: entity, Action: action, OccurredAt: time.Now().UTC()}.Encode()
	if err != nil {
		p.logg.Error(ctx, "encoding change event", err)
		return
	}

	result := p.topic.Publish(ctx, &pubsub.Message{Data: payload})

	fields := map[string]any{"entity": entity, "action": action}
	logCtx := p.logg.WithFields(context.WithoutCancel(ctx), fields)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishConfirmTimeout)
		defer cancel()

		if _, err := result.Get(waitCtx); err != nil {
			p.logg.Error(logCtx, "publishing change event", err)
			return
		}
		p.metrics.IncPublished(entity)
		p.logg.Debug(logCtx, "change event published")
	}()
}

// Flush blocks until in-flight publish confirmations settle. Called on shutdown.
func (p *Publisher) Flush() {
	if p == nil {
		return
	}
	p.wg.Wait()
}
