package relation

import (
	"context"
	"maps"
	"strings"

	"github.com/cockroachdb/errors"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
)

const (
	// NameLabel carries the relation name on every databag ConfigMap.
	NameLabel = "relation.gateway-route.lex.la/name"

	// IdentityAnnotation carries the owning identity of a databag ConfigMap.
	// Identities such as "workload/0" are not valid label values, so they
	// are kept in an annotation.
	IdentityAnnotation = "relation.gateway-route.lex.la/identity"

	maxObjectNameLength = 253
)

// ConfigMapStore keeps one ConfigMap per databag in a single namespace.
type ConfigMapStore struct {
	client    client.Client
	namespace string
	local     string
}

// NewConfigMapStore creates a store backed by ConfigMaps in namespace.
func NewConfigMapStore(c client.Client, namespace, local string) *ConfigMapStore {
	return &ConfigMapStore{
		client:    c,
		namespace: namespace,
		local:     local,
	}
}

// Get implements Store. A relation exists when at least one ConfigMap carries
// its name label.
func (s *ConfigMapStore) Get(ctx context.Context, name string) (*Relation, error) {
	var list corev1.ConfigMapList

	err := s.client.List(ctx, &list,
		client.InNamespace(s.namespace),
		client.MatchingLabels{NameLabel: name},
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list databags of relation %s", name)
	}

	if len(list.Items) == 0 {
		return nil, ErrNotFound
	}

	bags := make(map[string]Databag, len(list.Items))

	for i := range list.Items {
		configMap := &list.Items[i]

		identity := configMap.Annotations[IdentityAnnotation]
		if identity == "" {
			continue
		}

		bags[identity] = Databag(configMap.Data)
	}

	return New(name, s.local, bags), nil
}

// Write implements Store. The ConfigMap data is replaced in a single update,
// retried when the cached copy is older than the stored one.
func (s *ConfigMapStore) Write(ctx context.Context, name, identity string, bag Databag) error {
	err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
		configMap := &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:      DatabagName(name, identity),
				Namespace: s.namespace,
			},
		}

		//nolint:wrapcheck // wrapped once retries are exhausted
		_, err := controllerutil.CreateOrUpdate(ctx, s.client, configMap, func() error {
			if configMap.Labels == nil {
				configMap.Labels = make(map[string]string)
			}

			if configMap.Annotations == nil {
				configMap.Annotations = make(map[string]string)
			}

			configMap.Labels[NameLabel] = name
			configMap.Annotations[IdentityAnnotation] = identity
			configMap.Data = maps.Clone(map[string]string(bag))

			return nil
		})

		return err
	})
	if err != nil {
		return errors.Wrapf(err, "failed to write databag %s of relation %s", identity, name)
	}

	return nil
}

// DatabagName returns the ConfigMap name holding identity's databag.
func DatabagName(name, identity string) string {
	raw := strings.ToLower(name + "-" + identity)

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

	result := strings.Trim(builder.String(), "-.")
	if len(result) > maxObjectNameLength {
		result = strings.TrimRight(result[:maxObjectNameLength], "-.")
	}

	return result
}
