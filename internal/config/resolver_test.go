package config_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	"github.com/lexfrei/gateway-route-configurator/internal/config"
)

var errAPIUnavailable = errors.New("api unavailable")

func setupFakeClient(objects ...client.Object) client.Client {
	scheme := runtime.NewScheme()
	_ = corev1.AddToScheme(scheme)

	return fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(objects...).
		Build()
}

func TestValues_Defaults(t *testing.T) {
	t.Parallel()

	values := config.Values{}

	assert.Empty(t, values.Hostname())
	assert.Equal(t, "/", values.Paths())
}

func TestValues_ExplicitEmptyPaths(t *testing.T) {
	t.Parallel()

	values := config.Values{config.KeyPaths: ""}

	assert.Empty(t, values.Paths())
}

func TestStatic_Load(t *testing.T) {
	t.Parallel()

	source := config.Static{config.KeyHostname: "valid.example.com"}

	values, err := source.Load(context.Background())
	require.NoError(t, err)

	values[config.KeyHostname] = "changed"

	again, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "valid.example.com", again.Hostname())
}

func TestResolver_Load(t *testing.T) {
	t.Parallel()

	configMap := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "configurator-config",
			Namespace: "default",
		},
		Data: map[string]string{
			config.KeyHostname: "valid.example.com",
			config.KeyPaths:    "/foo,/bar",
		},
	}

	resolver := config.NewResolver(setupFakeClient(configMap), "default", "configurator-config")

	values, err := resolver.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "valid.example.com", values.Hostname())
	assert.Equal(t, "/foo,/bar", values.Paths())
	assert.Equal(t, "default/configurator-config", resolver.Key().String())
}

func TestResolver_LoadMissingConfigMap(t *testing.T) {
	t.Parallel()

	resolver := config.NewResolver(setupFakeClient(), "default", "configurator-config")

	values, err := resolver.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, values.Hostname())
	assert.Equal(t, "/", values.Paths())
}

func TestResolver_LoadError(t *testing.T) {
	t.Parallel()

	scheme := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(scheme))

	fakeClient := fake.NewClientBuilder().
		WithScheme(scheme).
		WithInterceptorFuncs(interceptor.Funcs{
			Get: func(_ context.Context, _ client.WithWatch, _ client.ObjectKey, _ client.Object, _ ...client.GetOption) error {
				return errAPIUnavailable
			},
		}).
		Build()

	resolver := config.NewResolver(fakeClient, "default", "configurator-config")

	_, err := resolver.Load(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errAPIUnavailable))
	assert.Contains(t, err.Error(), "failed to get config map default/configurator-config")
}
