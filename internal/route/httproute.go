package route

import (
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
)

// ManagedByLabel marks HTTPRoutes rendered from a RouteConfig.
const ManagedByLabel = "gateway-route.lex.la/application"

const maxRouteNameLength = 253

// HTTPRouteName names the route of cfg after its application and hostname,
// so records for one application on different hostnames do not collide.
func HTTPRouteName(cfg *RouteConfig) string {
	raw := strings.ToLower(cfg.Application + "-" + cfg.Hostname)

	var builder strings.Builder

	builder.Grow(len(raw))

	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			builder.WriteRune(r)
		default:
			builder.WriteRune('-')
		}
	}

	name := strings.Trim(builder.String(), "-.")
	if len(name) > maxRouteNameLength {
		name = strings.TrimRight(name[:maxRouteNameLength], "-.")
	}

	return name
}

// HTTPRoute renders the record as an HTTPRoute attached to parent.
// The route is named by HTTPRouteName and lives in the application's
// namespace. Each path becomes one PathPrefix rule backed by the application
// Service on the configured port.
func HTTPRoute(cfg *RouteConfig, parent gatewayv1.ParentReference) *gatewayv1.HTTPRoute {
	prefixType := gatewayv1.PathMatchPathPrefix
	port := gatewayv1.PortNumber(cfg.Port) //nolint:gosec // port is validated to 1-65535

	rules := make([]gatewayv1.HTTPRouteRule, 0, len(cfg.Paths))

	for _, path := range cfg.Paths {
		value := path

		rules = append(rules, gatewayv1.HTTPRouteRule{
			Matches: []gatewayv1.HTTPRouteMatch{
				{
					Path: &gatewayv1.HTTPPathMatch{
						Type:  &prefixType,
						Value: &value,
					},
				},
			},
			BackendRefs: []gatewayv1.HTTPBackendRef{
				{
					BackendRef: gatewayv1.BackendRef{
						BackendObjectReference: gatewayv1.BackendObjectReference{
							Name: gatewayv1.ObjectName(cfg.Application),
							Port: &port,
						},
					},
				},
			},
		})
	}

	return &gatewayv1.HTTPRoute{
		TypeMeta: metav1.TypeMeta{
			APIVersion: gatewayv1.GroupVersion.String(),
			Kind:       "HTTPRoute",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      HTTPRouteName(cfg),
			Namespace: cfg.Namespace,
			Labels: map[string]string{
				ManagedByLabel: cfg.Application,
			},
		},
		Spec: gatewayv1.HTTPRouteSpec{
			CommonRouteSpec: gatewayv1.CommonRouteSpec{
				ParentRefs: []gatewayv1.ParentReference{parent},
			},
			Hostnames: []gatewayv1.Hostname{gatewayv1.Hostname(cfg.Hostname)},
			Rules:     rules,
		},
	}
}
