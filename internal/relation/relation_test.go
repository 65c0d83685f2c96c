package relation_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfrei/gateway-route-configurator/internal/relation"
)

const localUnit = "gateway-route-configurator/0"

func TestRelation_Peers(t *testing.T) {
	t.Parallel()

	rel := relation.New("ingress", localUnit, map[string]relation.Databag{
		localUnit:    {"a": "1"},
		"workload/1": {},
		"workload":   {"name": `"my-app"`},
	})

	assert.Equal(t, []string{"workload", "workload/1"}, rel.Peers())
	assert.True(t, rel.HasPeers())
	assert.Equal(t, relation.Databag{"a": "1"}, rel.LocalData())
	assert.Nil(t, rel.Data("missing"))
}

func TestRelation_NoPeers(t *testing.T) {
	t.Parallel()

	rel := relation.New("ingress", localUnit, map[string]relation.Databag{
		localUnit: {},
	})

	assert.Empty(t, rel.Peers())
	assert.False(t, rel.HasPeers())
}

func TestRelation_DataIsCopied(t *testing.T) {
	t.Parallel()

	bags := map[string]relation.Databag{"workload": {"name": "x"}}
	rel := relation.New("ingress", localUnit, bags)

	bags["workload"]["name"] = "changed"

	data := rel.Data("workload")
	data["name"] = "mutated"

	assert.Equal(t, "x", rel.Data("workload")["name"])
}

func TestMemoryStore_GetMissing(t *testing.T) {
	t.Parallel()

	store := relation.NewMemoryStore(localUnit)

	_, err := store.Get(context.Background(), "ingress")

	require.Error(t, err)
	assert.True(t, errors.Is(err, relation.ErrNotFound))
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := relation.NewMemoryStore(localUnit)

	store.Create("ingress")

	rel, err := store.Get(ctx, "ingress")
	require.NoError(t, err)
	assert.False(t, rel.HasPeers())

	store.Join("ingress", "workload", relation.Databag{"port": "8080"})

	rel, err = store.Get(ctx, "ingress")
	require.NoError(t, err)
	assert.Equal(t, []string{"workload"}, rel.Peers())
	assert.Equal(t, "8080", rel.Data("workload")["port"])

	store.Remove("ingress")

	_, err = store.Get(ctx, "ingress")
	assert.True(t, errors.Is(err, relation.ErrNotFound))
}

func TestMemoryStore_WriteReplaces(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := relation.NewMemoryStore(localUnit)

	require.NoError(t, store.Write(ctx, "gateway-route", localUnit, relation.Databag{"a": "1", "b": "2"}))
	require.NoError(t, store.Write(ctx, "gateway-route", localUnit, relation.Databag{"a": "3"}))

	rel, err := store.Get(ctx, "gateway-route")
	require.NoError(t, err)
	assert.Equal(t, relation.Databag{"a": "3"}, rel.LocalData())
}

func TestDatabagName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		relation string
		identity string
		expected string
	}{
		{name: "unit", relation: "ingress", identity: "workload/0", expected: "ingress-workload-0"},
		{name: "application", relation: "gateway-route", identity: "integrator", expected: "gateway-route-integrator"},
		{name: "uppercase", relation: "ingress", identity: "Workload_A", expected: "ingress-workload-a"},
		{name: "trailing separator", relation: "ingress", identity: "app/", expected: "ingress-app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, relation.DatabagName(tt.relation, tt.identity))
		})
	}
}
