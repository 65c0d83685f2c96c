package controller

import (
	"context"
	"log/slog"
	"maps"

	"github.com/cockroachdb/errors"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/event"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
	"sigs.k8s.io/controller-runtime/pkg/source"

	"github.com/lexfrei/gateway-route-configurator/internal/relation"
	"github.com/lexfrei/gateway-route-configurator/internal/status"
)

// controllerName names the controller and its single work item.
const controllerName = "gateway-route-configurator"

// Runner performs one reconciliation and returns the resulting status.
type Runner interface {
	Reconcile(ctx context.Context) status.Status
}

// StatusReporter publishes the unit status.
type StatusReporter interface {
	Report(ctx context.Context, s status.Status) error
}

// RouteConfiguratorReconciler turns ConfigMap events into reconciliations.
//
// Key behaviors:
//   - Watches the options ConfigMap and every relation databag ConfigMap
//     in Namespace
//   - Collapses every event into a single work item, so reconciliations
//     never overlap
//   - Ignores updates that leave ConfigMap data and relation metadata
//     untouched
//   - Reports the resulting status and never requeues; the next event
//     recomputes everything
type RouteConfiguratorReconciler struct {
	client.Client

	// Scheme is the runtime scheme for API type registration.
	Scheme *runtime.Scheme

	// Namespace holds the options and relation ConfigMaps.
	Namespace string

	// ConfigMapName is the ConfigMap holding the options.
	ConfigMapName string

	// Runner computes the status.
	Runner Runner

	// Reporter publishes the status.
	Reporter StatusReporter

	trigger chan event.GenericEvent
}

func (r *RouteConfiguratorReconciler) Reconcile(ctx context.Context, _ ctrl.Request) (ctrl.Result, error) {
	logger := slog.Default().With("component", "configurator-controller")

	result := r.Runner.Reconcile(ctx)

	if err := r.Reporter.Report(ctx, result); err != nil {
		logger.Error("failed to report status", "error", err, "status", result.String())

		return ctrl.Result{}, errors.Wrap(err, "failed to report status")
	}

	return ctrl.Result{}, nil
}

// SetupWithManager sets up the controller with the Manager.
func (r *RouteConfiguratorReconciler) SetupWithManager(mgr ctrl.Manager) error {
	r.trigger = make(chan event.GenericEvent, 1)

	err := ctrl.NewControllerManagedBy(mgr).
		Named(controllerName).
		WithOptions(controller.Options{MaxConcurrentReconciles: 1}).
		Watches(
			&corev1.ConfigMap{},
			handler.EnqueueRequestsFromMapFunc(r.mapToRequest),
			builder.WithPredicates(
				predicate.NewPredicateFuncs(r.isRelevant),
				DataChangedPredicate(),
			),
		).
		WatchesRawSource(source.Channel(r.trigger, handler.EnqueueRequestsFromMapFunc(r.mapToRequest))).
		Complete(r)
	if err != nil {
		return errors.Wrap(err, "failed to setup configurator controller")
	}

	// Add startup runnable for the initial reconciliation
	addErr := mgr.Add(r)
	if addErr != nil {
		return errors.Wrap(addErr, "failed to add startup runnable")
	}

	return nil
}

// Start implements manager.Runnable. It queues one reconciliation so the
// status is reported even when no ConfigMap exists yet.
func (r *RouteConfiguratorReconciler) Start(ctx context.Context) error {
	logger := slog.Default().With("component", "configurator-startup")
	logger.Info("queueing initial reconciliation")

	select {
	case r.trigger <- event.GenericEvent{Object: &corev1.ConfigMap{}}:
	case <-ctx.Done():
	}

	return nil
}

func (r *RouteConfiguratorReconciler) mapToRequest(_ context.Context, _ client.Object) []reconcile.Request {
	return []reconcile.Request{
		{NamespacedName: types.NamespacedName{Namespace: r.Namespace, Name: controllerName}},
	}
}

// isRelevant reports whether obj is the options ConfigMap or a relation databag.
func (r *RouteConfiguratorReconciler) isRelevant(obj client.Object) bool {
	if obj.GetNamespace() != r.Namespace {
		return false
	}

	if obj.GetName() == r.ConfigMapName {
		return true
	}

	_, ok := obj.GetLabels()[relation.NameLabel]

	return ok
}

// DataChangedPredicate passes create and delete events, and updates that
// change ConfigMap data or relation metadata.
func DataChangedPredicate() predicate.Predicate {
	return predicate.Funcs{
		UpdateFunc: func(e event.UpdateEvent) bool {
			oldMap, oldOK := e.ObjectOld.(*corev1.ConfigMap)
			newMap, newOK := e.ObjectNew.(*corev1.ConfigMap)

			if !oldOK || !newOK {
				return true
			}

			if !maps.Equal(oldMap.Data, newMap.Data) {
				return true
			}

			if oldMap.Labels[relation.NameLabel] != newMap.Labels[relation.NameLabel] {
				return true
			}

			return oldMap.Annotations[relation.IdentityAnnotation] != newMap.Annotations[relation.IdentityAnnotation]
		},
	}
}
