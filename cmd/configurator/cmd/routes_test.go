package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
	"sigs.k8s.io/yaml"

	"github.com/lexfrei/gateway-route-configurator/internal/gatewayroute"
	"github.com/lexfrei/gateway-route-configurator/internal/relation"
	"github.com/lexfrei/gateway-route-configurator/internal/route"
)

func publish(t *testing.T, store *relation.MemoryStore, identity string, cfg *route.RouteConfig) {
	t.Helper()

	bag, err := gatewayroute.Encode(cfg)
	require.NoError(t, err)

	store.Join(gatewayroute.DefaultRelationName, identity, bag)
}

func TestRenderRoutes(t *testing.T) {
	t.Parallel()

	store := relation.NewMemoryStore("integrator/0")
	publish(t, store, "configurator-a/0", &route.RouteConfig{
		Hostname:    "a.example.com",
		Paths:       []string{"/"},
		Port:        8080,
		Application: "app-a",
		Namespace:   "model-a",
	})
	publish(t, store, "configurator-b/0", &route.RouteConfig{
		Hostname:    "b.example.com",
		Paths:       []string{"/api", "/web"},
		Port:        9090,
		Application: "app-b",
		Namespace:   "model-b",
	})
	publish(t, store, "configurator-c/0", &route.RouteConfig{
		Hostname:    "c.example.com",
		Paths:       []string{"/a", ""},
		Port:        80,
		Application: "app-c",
		Namespace:   "model-c",
	})

	var out bytes.Buffer

	err := renderRoutes(
		context.Background(),
		gatewayroute.NewProvider(store, gatewayroute.DefaultRelationName),
		gatewayv1.ParentReference{Name: "public"},
		&out,
	)
	require.NoError(t, err)

	docs := strings.Split(out.String(), "---\n")
	require.Len(t, docs, 2)

	var first gatewayv1.HTTPRoute
	require.NoError(t, yaml.Unmarshal([]byte(docs[0]), &first))
	assert.Equal(t, "HTTPRoute", first.Kind)
	assert.Equal(t, "app-a-a.example.com", first.Name)
	assert.Equal(t, []gatewayv1.Hostname{"a.example.com"}, first.Spec.Hostnames)

	var second gatewayv1.HTTPRoute
	require.NoError(t, yaml.Unmarshal([]byte(docs[1]), &second))
	assert.Equal(t, "model-b", second.Namespace)
	assert.Len(t, second.Spec.Rules, 2)
	assert.Equal(t, gatewayv1.ObjectName("public"), second.Spec.ParentRefs[0].Name)
}

func TestRenderRoutes_MissingRelation(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := renderRoutes(
		context.Background(),
		gatewayroute.NewProvider(relation.NewMemoryStore("integrator/0"), ""),
		gatewayv1.ParentReference{Name: "public"},
		&out,
	)

	require.NoError(t, err)
	assert.Empty(t, out.String())
}
