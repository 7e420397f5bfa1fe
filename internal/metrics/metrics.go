// Package metrics exposes Prometheus instrumentation for the recipe platform.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	eventsPosted    *prometheus.CounterVec
	eventsForwarded *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers the platform collectors on reg. A nil reg gets a fresh
// registry that also carries the Go runtime and process collectors.
func New(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
		if err := registerAll(reg,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		); err != nil {
			return nil, err
		}
	}

	m := &Metrics{
		registry: reg,
		eventsPosted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_events_posted_total",
			Help: "Events posted to an in-process bus",
		}, []string{"bus", "type", "result"}),
		eventsForwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_events_forwarded_total",
			Help: "Events handed to an external sink",
		}, []string{"sink", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Processed HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	if err := registerAll(reg, m.eventsPosted, m.eventsForwarded, m.httpRequests, m.httpDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func registerAll(reg prometheus.Registerer, cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Registry returns the registry backing Handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RegisterDropped exposes a bus drop counter under the bus label.
func (m *Metrics) RegisterDropped(bus string, dropped func() uint64) error {
	return m.registry.Register(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name:        "recipe_events_dropped_total",
		Help:        "Deliveries skipped because a subscriber buffer was full",
		ConstLabels: prometheus.Labels{"bus": bus},
	}, func() float64 { return float64(dropped()) }))
}

// GinMiddleware records request counts and latency per route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Event is implemented by every bus payload.
type Event interface {
	EventKind() string
}

// Poster is the posting side of a bus.
type Poster[T any] interface {
	Post(ctx context.Context, event T) error
}

// InstrumentedBus counts posts by event kind and outcome.
type InstrumentedBus[T Event] struct {
	next    Poster[T]
	name    string
	metrics *Metrics
}

// InstrumentBus wraps next so every post is counted under name.
func InstrumentBus[T Event](m *Metrics, name string, next Poster[T]) *InstrumentedBus[T] {
	return &InstrumentedBus[T]{next: next, name: name, metrics: m}
}

func (b *InstrumentedBus[T]) Post(ctx context.Context, event T) error {
	err := b.next.Post(ctx, event)
	b.metrics.eventsPosted.WithLabelValues(b.name, event.EventKind(), result(err)).Inc()
	return err
}

// Sink mirrors the external event sink contract.
type Sink interface {
	Publish(ctx context.Context, key string, payload any) error
}

type instrumentedSink struct {
	next    Sink
	name    string
	metrics *Metrics
}

// InstrumentSink wraps next so every publish is counted under name.
func InstrumentSink(m *Metrics, name string, next Sink) Sink {
	return &instrumentedSink{next: next, name: name, metrics: m}
}

func (s *instrumentedSink) Publish(ctx context.Context, key string, payload any) error {
	err := s.next.Publish(ctx, key, payload)
	s.metrics.eventsForwarded.WithLabelValues(s.name, result(err)).Inc()
	return err
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
