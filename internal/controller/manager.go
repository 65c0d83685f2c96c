package controller

import (
	"context"

	"github.com/cockroachdb/errors"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
	"sigs.k8s.io/controller-runtime/pkg/metrics/server"

	"github.com/lexfrei/gateway-route-configurator/internal/config"
	"github.com/lexfrei/gateway-route-configurator/internal/gatewayroute"
	"github.com/lexfrei/gateway-route-configurator/internal/ingress"
	"github.com/lexfrei/gateway-route-configurator/internal/metrics"
	"github.com/lexfrei/gateway-route-configurator/internal/reconciler"
	"github.com/lexfrei/gateway-route-configurator/internal/relation"
)

// Config holds all configuration options for the controller manager.
// Values are typically populated from CLI flags or environment variables.
type Config struct {
	// Namespace holds the options, status and relation ConfigMaps.
	Namespace string

	// ConfigMapName is the ConfigMap holding the hostname and paths options.
	ConfigMapName string

	// StatusConfigMapName is the ConfigMap the unit status is written to.
	StatusConfigMapName string

	// UnitName is the local identity used for the published databag.
	UnitName string

	// IngressRelation is the relation the workload requests ingress on.
	IngressRelation string

	// GatewayRouteRelation is the relation the integrator consumes routes on.
	GatewayRouteRelation string

	// MetricsAddr is the address for the Prometheus metrics endpoint.
	MetricsAddr string

	// HealthAddr is the address for health and readiness probe endpoints.
	HealthAddr string

	// LeaderElect enables leader election for high availability.
	// Required when running multiple replicas.
	LeaderElect bool

	// LeaderElectName is the name of the leader election lease.
	LeaderElectName string
}

// Validate checks that the required options are set.
//
//nolint:wrapcheck // errors.New creates new errors
func (c *Config) Validate() error {
	switch {
	case c.Namespace == "":
		return errors.New("namespace is required")
	case c.ConfigMapName == "":
		return errors.New("config-map is required")
	case c.StatusConfigMapName == "":
		return errors.New("status-config-map is required")
	case c.ConfigMapName == c.StatusConfigMapName:
		return errors.New("config-map and status-config-map must differ")
	case c.UnitName == "":
		return errors.New("unit-name is required")
	}

	return nil
}

// Run initializes and starts the controller manager with the provided configuration.
// It blocks until the context is cancelled or an error occurs.
//
// The function performs the following steps:
//  1. Initializes controller-runtime manager scoped to Namespace
//  2. Wires the ConfigMap backed relation store, ingress provider and
//     gateway-route requirer into the reconciler
//  3. Registers the configurator controller and health endpoints
//  4. Starts the manager and blocks until shutdown
//
//nolint:funlen,noinlineerr // controller setup requires multiple steps
func Run(ctx context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	logger := log.FromContext(ctx).WithName("manager")
	logger.Info("initializing controller manager", "namespace", cfg.Namespace, "unit", cfg.UnitName)

	mgrOptions := ctrl.Options{
		Metrics: server.Options{
			BindAddress: cfg.MetricsAddr,
		},
		HealthProbeBindAddress: cfg.HealthAddr,
		Cache: cache.Options{
			DefaultNamespaces: map[string]cache.Config{
				cfg.Namespace: {},
			},
		},
	}

	if cfg.LeaderElect {
		mgrOptions.LeaderElection = true
		mgrOptions.LeaderElectionID = cfg.LeaderElectName
		mgrOptions.LeaderElectionNamespace = cfg.Namespace

		logger.Info("leader election enabled",
			"id", cfg.LeaderElectName,
			"namespace", cfg.Namespace,
		)
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), mgrOptions)
	if err != nil {
		return errors.Wrap(err, "failed to create manager")
	}

	store := relation.NewConfigMapStore(mgr.GetClient(), cfg.Namespace, cfg.UnitName)

	core := reconciler.New(
		config.NewResolver(mgr.GetClient(), cfg.Namespace, cfg.ConfigMapName),
		ingress.NewProvider(store, cfg.IngressRelation),
		gatewayroute.NewRequirer(store, cfg.GatewayRouteRelation, cfg.UnitName),
		metrics.NewCollector(ctrlmetrics.Registry),
	)

	configuratorReconciler := &RouteConfiguratorReconciler{
		Client:        mgr.GetClient(),
		Scheme:        mgr.GetScheme(),
		Namespace:     cfg.Namespace,
		ConfigMapName: cfg.ConfigMapName,
		Runner:        core,
		Reporter:      NewConfigMapStatusReporter(mgr.GetClient(), cfg.Namespace, cfg.StatusConfigMapName),
	}

	if err := configuratorReconciler.SetupWithManager(mgr); err != nil {
		return errors.Wrap(err, "failed to setup configurator controller")
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		return errors.Wrap(err, "failed to set up health check")
	}

	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		return errors.Wrap(err, "failed to set up ready check")
	}

	logger.Info("starting manager")

	if err := mgr.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start manager")
	}

	return nil
}
