package controller

import (
	"context"

	"github.com/cockroachdb/errors"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	"github.com/lexfrei/gateway-route-configurator/internal/status"
)

// Keys of the status ConfigMap.
const (
	StatusKeyKind    = "kind"
	StatusKeyMessage = "message"
)

// ConfigMapStatusReporter writes the unit status into a dedicated ConfigMap.
type ConfigMapStatusReporter struct {
	client    client.Client
	namespace string
	name      string
}

// NewConfigMapStatusReporter creates a reporter writing namespace/name.
func NewConfigMapStatusReporter(c client.Client, namespace, name string) *ConfigMapStatusReporter {
	return &ConfigMapStatusReporter{client: c, namespace: namespace, name: name}
}

// Report implements StatusReporter. The previous status is replaced.
func (r *ConfigMapStatusReporter) Report(ctx context.Context, s status.Status) error {
	//nolint:wrapcheck // retry wrapper handles errors internally
	return retry.RetryOnConflict(retry.DefaultRetry, func() error {
		configMap := &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:      r.name,
				Namespace: r.namespace,
			},
		}

		_, err := controllerutil.CreateOrUpdate(ctx, r.client, configMap, func() error {
			configMap.Data = map[string]string{
				StatusKeyKind:    string(s.Kind),
				StatusKeyMessage: s.Message,
			}

			return nil
		})
		if err != nil {
			return errors.Wrapf(err, "failed to write status config map %s/%s", r.namespace, r.name)
		}

		return nil
	})
}
