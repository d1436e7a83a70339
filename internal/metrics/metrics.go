// Package metrics holds the server's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/trpc"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "journey"

type Metrics struct {
	Registry *prometheus.Registry

	procedureCalls    *prometheus.CounterVec
	procedureDuration *prometheus.HistogramVec
	webhookEvents     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		procedureCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "procedures",
				Name:      "calls_total",
				Help:      "Total number of procedure calls by result code.",
			},
			[]string{"procedure", "code"},
		),
		procedureDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "procedures",
				Name:      "duration_seconds",
				Help:      "Duration of procedure calls.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
			[]string{"procedure"},
		),
		webhookEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "webhooks",
				Name:      "events_total",
				Help:      "Total number of payment webhook events by type and outcome.",
			},
			[]string{"event_type", "outcome"},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.procedureCalls,
		m.procedureDuration,
		m.webhookEvents,
	)
	return m
}

// ObserveProcedure records a finished procedure call. It satisfies
// trpc.Observer.
func (m *Metrics) ObserveProcedure(procedure string, code trpc.Code, elapsed time.Duration) {
	m.procedureCalls.WithLabelValues(procedure, string(code)).Inc()
	m.procedureDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordWebhook(eventType, outcome string) {
	m.webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
