// Package metrics provides Prometheus metrics instrumentation for the configurator.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status kinds used as metric label values.
var statusKinds = []string{"blocked", "waiting", "active"} //nolint:gochecknoglobals // label set

// Collector provides metrics recording interface.
// This allows components to record metrics without direct prometheus dependency.
type Collector interface {
	// RecordReconcile records one reconciliation and the status kind it ended in.
	RecordReconcile(ctx context.Context, kind string, duration time.Duration)

	// RecordStatus sets the current status kind gauge.
	RecordStatus(ctx context.Context, kind string)

	// RecordPublish records the outcome of publishing a route record.
	RecordPublish(ctx context.Context, result string)

	// RecordPublishError records a failed publish by error type.
	RecordPublishError(ctx context.Context, errorType string)
}

// prometheusCollector implements Collector using Prometheus metrics.
type prometheusCollector struct {
	reconcileDuration *prometheus.HistogramVec
	reconcileTotal    *prometheus.CounterVec
	status            *prometheus.GaugeVec

	publishTotal       *prometheus.CounterVec
	publishErrorsTotal *prometheus.CounterVec
}

// NewCollector creates a new Prometheus metrics collector and registers metrics.
func NewCollector(reg prometheus.Registerer) Collector {
	c := &prometheusCollector{}
	c.initReconcileMetrics()
	c.initPublishMetrics()
	c.register(reg)

	return c
}

// RecordReconcile records the duration and outcome of a reconciliation.
func (c *prometheusCollector) RecordReconcile(_ context.Context, kind string, duration time.Duration) {
	c.reconcileDuration.WithLabelValues(kind).Observe(duration.Seconds())
	c.reconcileTotal.WithLabelValues(kind).Inc()
}

// RecordStatus marks kind as the current status and clears the others.
func (c *prometheusCollector) RecordStatus(_ context.Context, kind string) {
	for _, known := range statusKinds {
		value := 0.0
		if known == kind {
			value = 1
		}

		c.status.WithLabelValues(known).Set(value)
	}
}

// RecordPublish records a publish attempt.
func (c *prometheusCollector) RecordPublish(_ context.Context, result string) {
	c.publishTotal.WithLabelValues(result).Inc()
}

// RecordPublishError records a publish error by type.
func (c *prometheusCollector) RecordPublishError(_ context.Context, errorType string) {
	c.publishErrorsTotal.WithLabelValues(errorType).Inc()
}

func (c *prometheusCollector) initReconcileMetrics() {
	c.reconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grc_reconcile_duration_seconds",
			Help:    "Duration of route configuration reconciliation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"},
	)
	c.reconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grc_reconcile_total",
			Help: "Total reconciliations by resulting status kind",
		},
		[]string{"kind"},
	)
	c.status = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "grc_status",
			Help: "Current unit status kind (1 for the active kind, 0 otherwise)",
		},
		[]string{"kind"},
	)
}

func (c *prometheusCollector) initPublishMetrics() {
	c.publishTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grc_publish_total",
			Help: "Total route record publish attempts",
		},
		[]string{"result"},
	)
	c.publishErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grc_publish_errors_total",
			Help: "Total route record publish errors by type",
		},
		[]string{"error_type"},
	)
}

func (c *prometheusCollector) register(reg prometheus.Registerer) {
	reg.MustRegister(
		c.reconcileDuration,
		c.reconcileTotal,
		c.status,
		c.publishTotal,
		c.publishErrorsTotal,
	)
}

// NoopCollector is a no-op implementation of Collector for testing.
type NoopCollector struct{}

// NewNoopCollector creates a new no-op collector.
func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

// RecordReconcile is a no-op.
func (c *NoopCollector) RecordReconcile(_ context.Context, _ string, _ time.Duration) {}

// RecordStatus is a no-op.
func (c *NoopCollector) RecordStatus(_ context.Context, _ string) {}

// RecordPublish is a no-op.
func (c *NoopCollector) RecordPublish(_ context.Context, _ string) {}

// RecordPublishError is a no-op.
func (c *NoopCollector) RecordPublishError(_ context.Context, _ string) {}
