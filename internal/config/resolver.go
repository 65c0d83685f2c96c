// Package config provides the configurator's option surface and loads it from
// a ConfigMap.
package config

import (
	"context"
	"maps"

	"github.com/cockroachdb/errors"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/lexfrei/gateway-route-configurator/internal/route"
)

const (
	// KeyHostname is the hostname to serve the application on.
	KeyHostname = "hostname"
	// KeyPaths is a comma separated list of paths to serve.
	KeyPaths = "paths"
)

// Values is the raw option set as the operator wrote it.
// A key that is absent differs from one set to the empty string.
type Values map[string]string

// Hostname returns the configured hostname, or "" if unset.
func (v Values) Hostname() string {
	return v[KeyHostname]
}

// Paths returns the raw paths option, defaulting to "/" when unset.
// An explicitly empty value is returned as is.
func (v Values) Paths() string {
	paths, ok := v[KeyPaths]
	if !ok {
		return route.DefaultPaths
	}

	return paths
}

// Source loads the current option set.
type Source interface {
	Load(ctx context.Context) (Values, error)
}

// Static is a Source returning fixed values.
type Static Values

// Load implements Source.
func (s Static) Load(_ context.Context) (Values, error) {
	return Values(maps.Clone(s)), nil
}

// Resolver loads options from the data of a single ConfigMap.
type Resolver struct {
	client client.Client
	key    types.NamespacedName
}

// NewResolver creates a Resolver reading the ConfigMap name in namespace.
func NewResolver(c client.Client, namespace, name string) *Resolver {
	return &Resolver{
		client: c,
		key:    types.NamespacedName{Namespace: namespace, Name: name},
	}
}

// Key returns the ConfigMap this resolver reads.
func (r *Resolver) Key() types.NamespacedName {
	return r.key
}

// Load implements Source. A missing ConfigMap yields an empty option set,
// so the hostname check reports the problem instead of a lookup error.
func (r *Resolver) Load(ctx context.Context) (Values, error) {
	configMap := &corev1.ConfigMap{}

	err := r.client.Get(ctx, r.key, configMap)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return Values{}, nil
		}

		return nil, errors.Wrapf(err, "failed to get config map %s", r.key)
	}

	return Values(maps.Clone(configMap.Data)), nil
}
