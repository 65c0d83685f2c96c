// Package reconciler maps the configured route and the ingress facts to a
// published route record and a unit status.
//
// Reconcile runs the checks below in order and stops at the first failure:
//
//  1. hostname set                      Blocked "Missing 'hostname' config"
//  2. hostname grammar                  Blocked "Invalid hostname: <hostname>"
//  3. ingress relation exists           Blocked "Missing 'ingress' relation"
//  4. ingress relation has a peer       Waiting "Waiting for ingress relation"
//  5. ingress data valid                Blocked "Invalid ingress data"
//  6. ingress data readable             Waiting "Waiting for ingress data"
//  7. record published                  Blocked "Error sending config: <error>"
//
// Otherwise the status is Active "Ready". Nothing is carried over between
// calls; repeating a call with the same inputs yields the same result.
package reconciler

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/lexfrei/gateway-route-configurator/internal/config"
	"github.com/lexfrei/gateway-route-configurator/internal/ingress"
	"github.com/lexfrei/gateway-route-configurator/internal/metrics"
	"github.com/lexfrei/gateway-route-configurator/internal/relation"
	"github.com/lexfrei/gateway-route-configurator/internal/route"
	"github.com/lexfrei/gateway-route-configurator/internal/status"
)

// Status messages.
const (
	MessageMissingHostname = "Missing 'hostname' config"
	MessageInvalidHostname = "Invalid hostname: "
	MessageMissingRelation = "Missing 'ingress' relation"
	MessageWaitingRelation = "Waiting for ingress relation"
	MessageInvalidData     = "Invalid ingress data"
	MessageWaitingData     = "Waiting for ingress data"
	MessageWaitingConfig   = "Waiting for config"
	MessageSendError       = "Error sending config: "
	MessageReady           = "Ready"
)

const (
	publishResultSuccess = "success"
	publishResultError   = "error"
)

// IngressReader reads the upstream ingress facts.
type IngressReader interface {
	// Relation returns the ingress relation, or an error matching
	// relation.ErrNotFound if it does not exist.
	Relation(ctx context.Context) (*relation.Relation, error)

	// Data decodes the peer application's facts. Malformed data yields an
	// error matching ingress.ErrDataValidation.
	Data(rel *relation.Relation) (*ingress.AppData, error)
}

// Publisher delivers a route record downstream.
type Publisher interface {
	SendRouteConfiguration(ctx context.Context, cfg *route.RouteConfig) error
}

// Reconciler computes the route record and unit status.
type Reconciler struct {
	config    config.Source
	ingress   IngressReader
	publisher Publisher
	metrics   metrics.Collector
}

// New creates a Reconciler. A nil collector disables metrics.
func New(
	source config.Source,
	ingressReader IngressReader,
	publisher Publisher,
	metricsCollector metrics.Collector,
) *Reconciler {
	if metricsCollector == nil {
		metricsCollector = metrics.NewNoopCollector()
	}

	return &Reconciler{
		config:    source,
		ingress:   ingressReader,
		publisher: publisher,
		metrics:   metricsCollector,
	}
}

// Reconcile runs one reconciliation to completion and returns the resulting
// status. It never fails; every problem is expressed as a status.
func (r *Reconciler) Reconcile(ctx context.Context) status.Status {
	logger := slog.Default().With("component", "reconciler", "reconcileID", uuid.NewString())
	logger.Debug("configuring gateway route")

	startTime := time.Now()

	result := r.reconcile(ctx, logger)

	r.metrics.RecordReconcile(ctx, string(result.Kind), time.Since(startTime))
	r.metrics.RecordStatus(ctx, string(result.Kind))

	logger.Info("reconciled", "status", string(result.Kind), "message", result.Message)

	return result
}

func (r *Reconciler) reconcile(ctx context.Context, logger *slog.Logger) status.Status {
	values, err := r.config.Load(ctx)
	if err != nil {
		logger.Error("failed to load config", "error", err)

		return status.Waiting(MessageWaitingConfig)
	}

	hostname := values.Hostname()
	if hostname == "" {
		return status.Blocked(MessageMissingHostname)
	}

	if !route.ValidateHostname(hostname) {
		return status.Blocked(MessageInvalidHostname + hostname)
	}

	paths := route.ParsePaths(values.Paths())

	rel, err := r.ingress.Relation(ctx)
	if err != nil {
		if errors.Is(err, relation.ErrNotFound) {
			return status.Blocked(MessageMissingRelation)
		}

		logger.Error("failed to read ingress relation", "error", err)

		return status.Waiting(MessageWaitingRelation)
	}

	if !rel.HasPeers() {
		return status.Waiting(MessageWaitingRelation)
	}

	data, err := r.ingress.Data(rel)
	if err != nil {
		if errors.Is(err, ingress.ErrDataValidation) {
			logger.Warn("invalid ingress data", "error", err)

			return status.Blocked(MessageInvalidData)
		}

		logger.Debug("ingress data not available", "error", err)

		return status.Waiting(MessageWaitingData)
	}

	cfg := &route.RouteConfig{
		Hostname:    hostname,
		Paths:       paths,
		Port:        data.Port,
		Application: data.Name,
		Namespace:   data.Model,
	}

	err = r.publisher.SendRouteConfiguration(ctx, cfg)
	if err != nil {
		logger.Error("failed to send route configuration", "error", err)
		r.metrics.RecordPublish(ctx, publishResultError)
		r.metrics.RecordPublishError(ctx, metrics.ClassifyPublishError(err))

		return status.Blocked(MessageSendError + err.Error())
	}

	r.metrics.RecordPublish(ctx, publishResultSuccess)

	return status.Active(MessageReady)
}
