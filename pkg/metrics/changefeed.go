package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ChangefeedMetrics tracks change events moving through the relay.
type ChangefeedMetrics struct {
	published *prometheus.CounterVec
	relayed   *prometheus.CounterVec
	dropped   prometheus.Counter
	listeners prometheus.Gauge
}

// NewChangefeedMetrics registers the changefeed metrics on the provided registerer.
func NewChangefeedMetrics(reg prometheus.Registerer) *ChangefeedMetrics {
	if reg == nil {
		return &ChangefeedMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "changefeed_events_published_total",
		Help: "Change events published to the broker by entity.",
	}, []string{"entity"})
	relayed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "changefeed_events_relayed_total",
		Help: "Change events relayed from the broker to redis by entity.",
	}, []string{"entity"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "changefeed_events_dropped_total",
		Help: "Change events dropped because a subscriber buffer was full.",
	})
	listeners := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "changefeed_sse_listeners",
		Help: "Currently connected SSE listeners.",
	})
	reg.MustRegister(published, relayed, dropped, listeners)
	return &ChangefeedMetrics{
		published: published,
		relayed:   relayed,
		dropped:   dropped,
		listeners: listeners,
	}
}

// IncPublished counts an event accepted by the broker.
func (c *ChangefeedMetrics) IncPublished(entity string) {
	if c == nil || c.published == nil {
		return
	}
	c.published.WithLabelValues(normalizeLabel(entity)).Inc()
}

// IncRelayed counts an event forwarded to redis.
func (c *ChangefeedMetrics) IncRelayed(entity string) {
	if c == nil || c.relayed == nil {
		return
	}
	c.relayed.WithLabelValues(normalizeLabel(entity)).Inc()
}

// IncDropped counts an event dropped on a slow subscriber.
func (c *ChangefeedMetrics) IncDropped() {
	if c == nil || c.dropped == nil {
		return
	}
	c.dropped.Inc()
}

// AddListeners adjusts the connected listener gauge.
func (c *ChangefeedMetrics) AddListeners(delta float64) {
	if c == nil || c.listeners == nil {
		return
	}
	c.listeners.Add(delta)
}
