package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the user service.
type Metrics struct {
	RequestsTotal          *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec
	EventsPublishedTotal   *prometheus.CounterVec
	EventPublishFailures   *prometheus.CounterVec
	EventsConsumedTotal    *prometheus.CounterVec
	BrokerReconnectsTotal  prometheus.Counter
	ErrorsTotal            *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "endpoint"},
		),
		EventsPublishedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Total number of domain events published to the broker",
			},
			[]string{"event_type"},
		),
		EventPublishFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "event_publish_failures_total",
				Help:      "Total number of domain events dropped because publish failed",
			},
			[]string{"event_type"},
		),
		EventsConsumedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_consumed_total",
				Help:      "Total number of domain events consumed from the broker",
			},
			[]string{"event_type"},
		),
		BrokerReconnectsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "broker_reconnects_total",
				Help:      "Total number of broker reconnection attempts",
			},
		),
		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors",
			},
			[]string{"type"},
		),
	}
}

// RecordRequest records an HTTP request.
func (m *Metrics) RecordRequest(method, endpoint, status string) {
	m.RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
}

// RecordRequestDuration records HTTP request latency.
func (m *Metrics) RecordRequestDuration(method, endpoint string, seconds float64) {
	m.RequestDurationSeconds.WithLabelValues(method, endpoint).Observe(seconds)
}

// RecordEventPublished records a successfully published domain event.
func (m *Metrics) RecordEventPublished(eventType string) {
	m.EventsPublishedTotal.WithLabelValues(eventType).Inc()
}

// RecordEventPublishFailure records a dropped domain event.
func (m *Metrics) RecordEventPublishFailure(eventType string) {
	m.EventPublishFailures.WithLabelValues(eventType).Inc()
}

// RecordEventConsumed records a consumed domain event.
func (m *Metrics) RecordEventConsumed(eventType string) {
	m.EventsConsumedTotal.WithLabelValues(eventType).Inc()
}

// RecordBrokerReconnect records a broker reconnection attempt.
func (m *Metrics) RecordBrokerReconnect() {
	m.BrokerReconnectsTotal.Inc()
}

// RecordError records an error by type.
func (m *Metrics) RecordError(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
