package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
	"sigs.k8s.io/yaml"

	"github.com/lexfrei/gateway-route-configurator/internal/gatewayroute"
	"github.com/lexfrei/gateway-route-configurator/internal/relation"
	"github.com/lexfrei/gateway-route-configurator/internal/route"
)

//nolint:gochecknoglobals // cobra command pattern
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Render published route records as Gateway API HTTPRoutes",
	Long: `Reads every record published on the gateway-route relation, as an
integrator would, and prints one HTTPRoute per valid record as YAML.`,
	RunE:          runRoutes,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	routesCmd.Flags().String("gateway-name", "", "Gateway the rendered routes attach to")
	routesCmd.Flags().String("gateway-namespace", "", "Namespace of the Gateway (defaults to the route namespace)")
	routesCmd.Flags().String("section-name", "", "Gateway listener the rendered routes attach to")
	routesCmd.Flags().String("integrator-identity", "gateway-route-integrator/0", "Identity the records are read as")

	_ = viper.BindPFlags(routesCmd.Flags())
}

//nolint:noinlineerr // inline error handling is fine here
func runRoutes(cmd *cobra.Command, _ []string) error {
	logger := setupLogger()
	slog.SetDefault(logger)

	gatewayName := viper.GetString("gateway-name")
	if gatewayName == "" {
		return errors.New("gateway-name is required")
	}

	restConfig, err := ctrl.GetConfig()
	if err != nil {
		return errors.Wrap(err, "failed to load kubeconfig")
	}

	scheme := runtime.NewScheme()
	if err := corev1.AddToScheme(scheme); err != nil {
		return errors.Wrap(err, "failed to register core types")
	}

	k8sClient, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		return errors.Wrap(err, "failed to create client")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := relation.NewConfigMapStore(k8sClient, viper.GetString("namespace"), viper.GetString("integrator-identity"))
	provider := gatewayroute.NewProvider(store, viper.GetString("gateway-route-relation"))

	return renderRoutes(ctx, provider, parentReference(), cmd.OutOrStdout())
}

// parentReference builds the Gateway reference from flags.
func parentReference() gatewayv1.ParentReference {
	parent := gatewayv1.ParentReference{
		Name: gatewayv1.ObjectName(viper.GetString("gateway-name")),
	}

	if ns := viper.GetString("gateway-namespace"); ns != "" {
		namespace := gatewayv1.Namespace(ns)
		parent.Namespace = &namespace
	}

	if section := viper.GetString("section-name"); section != "" {
		sectionName := gatewayv1.SectionName(section)
		parent.SectionName = &sectionName
	}

	return parent
}

// renderRoutes writes one YAML document per valid record. Invalid records are
// logged and skipped.
func renderRoutes(ctx context.Context, provider *gatewayroute.Provider, parent gatewayv1.ParentReference, w io.Writer) error {
	routes, invalid, err := provider.RouteConfigurations(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to read route records")
	}

	for _, peer := range invalid {
		slog.Warn("skipping invalid route record", "peer", peer.Identity, "error", peer.Err)
	}

	for i, peer := range routes {
		out, marshalErr := yaml.Marshal(route.HTTPRoute(peer.Config, parent))
		if marshalErr != nil {
			return errors.Wrapf(marshalErr, "failed to render route of %s", peer.Identity)
		}

		if i > 0 {
			_, err = io.WriteString(w, "---\n")
			if err != nil {
				return errors.Wrap(err, "failed to write output")
			}
		}

		_, err = w.Write(out)
		if err != nil {
			return errors.Wrap(err, "failed to write output")
		}
	}

	return nil
}
