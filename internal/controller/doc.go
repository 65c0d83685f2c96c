// Package controller runs the route configurator inside a controller-runtime
// manager.
//
// Relations are stored as ConfigMaps in a single namespace (see package
// relation). The options ConfigMap carries the hostname and paths options.
// Every create, delete or data change of those ConfigMaps enqueues the same
// work item, so reconciliations are serialized and always recompute the
// route record from scratch:
//
//	┌──────────────────┐   watch   ┌─────────────────────────────┐
//	│ options ConfigMap│──────────>│ RouteConfiguratorReconciler │
//	└──────────────────┘           │                             │
//	┌──────────────────┐   watch   │   reconciler.Reconciler     │
//	│ ingress databags │──────────>│                             │
//	└──────────────────┘           └──────┬───────────────┬──────┘
//	                                      │               │
//	                                      ▼               ▼
//	                        ┌───────────────────┐ ┌──────────────────┐
//	                        │ gateway-route     │ │ status ConfigMap │
//	                        │ local databag     │ │ (kind, message)  │
//	                        └───────────────────┘ └──────────────────┘
//
// # Configuration
//
// The manager is configured via the Config struct which accepts settings
// from CLI flags or environment variables (GRC_* prefix).
//
// # Leader Election
//
// When running multiple replicas, enable leader election via --leader-elect
// so only one replica publishes the route record.
package controller
