package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/lexfrei/gateway-route-configurator/internal/controller"
	"github.com/lexfrei/gateway-route-configurator/internal/gatewayroute"
	"github.com/lexfrei/gateway-route-configurator/internal/ingress"
)

//nolint:gochecknoglobals // set by SetVersion from main
var (
	version = "development"
	gitsha  = "development"
)

func SetVersion(ver, sha string) {
	version = ver
	gitsha = sha
}

//nolint:gochecknoglobals // cobra command pattern
var rootCmd = &cobra.Command{
	Use:   "gateway-route-configurator",
	Short: "Publishes gateway route configuration for an ingress-requesting application",
	Long: `A Kubernetes controller that combines the configured hostname and paths with
the facts an application publishes on its ingress relation, and publishes the
resulting route record on the gateway-route relation for an integrator.`,
	RunE:          runController,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "Log format (json, text)")
	rootCmd.PersistentFlags().String("namespace", "default", "Namespace holding the options, status and relation ConfigMaps")
	rootCmd.PersistentFlags().String("unit-name", "gateway-route-configurator/0", "Local identity used on relations")
	rootCmd.PersistentFlags().String("gateway-route-relation", gatewayroute.DefaultRelationName,
		"Relation the route record is published on")

	rootCmd.Flags().String("config-map", "gateway-route-configurator-config", "ConfigMap holding the hostname and paths options")
	rootCmd.Flags().String("status-config-map", "gateway-route-configurator-status", "ConfigMap the unit status is written to")
	rootCmd.Flags().String("ingress-relation", ingress.DefaultRelationName, "Relation the application requests ingress on")
	rootCmd.Flags().String("metrics-addr", ":8080", "Address for metrics endpoint")
	rootCmd.Flags().String("health-addr", ":8081", "Address for health probe endpoint")

	// Leader election flags
	rootCmd.Flags().Bool("leader-elect", false, "Enable leader election for high availability")
	rootCmd.Flags().String("leader-election-name", "gateway-route-configurator-leader", "Name of the leader election lease")

	_ = viper.BindPFlags(rootCmd.Flags())
	_ = viper.BindPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(routesCmd)
}

func initConfig() {
	viper.SetEnvPrefix("GRC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("namespace", "default")
	viper.SetDefault("config-map", "gateway-route-configurator-config")
	viper.SetDefault("status-config-map", "gateway-route-configurator-status")
	viper.SetDefault("unit-name", "gateway-route-configurator/0")
	viper.SetDefault("ingress-relation", ingress.DefaultRelationName)
	viper.SetDefault("gateway-route-relation", gatewayroute.DefaultRelationName)
	viper.SetDefault("metrics-addr", ":8080")
	viper.SetDefault("health-addr", ":8081")
	viper.SetDefault("log-level", "info")
	viper.SetDefault("log-format", "json")
	viper.SetDefault("leader-elect", false)
	viper.SetDefault("leader-election-name", "gateway-route-configurator-leader")
}

func Execute() error {
	return errors.Wrap(rootCmd.Execute(), "command execution failed")
}

func setupLogger() *slog.Logger {
	level := slog.LevelInfo

	switch viper.GetString("log-level") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if viper.GetString("log-format") == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// controllerConfig builds the manager configuration from flags and environment.
func controllerConfig() controller.Config {
	return controller.Config{
		Namespace:            viper.GetString("namespace"),
		ConfigMapName:        viper.GetString("config-map"),
		StatusConfigMapName:  viper.GetString("status-config-map"),
		UnitName:             viper.GetString("unit-name"),
		IngressRelation:      viper.GetString("ingress-relation"),
		GatewayRouteRelation: viper.GetString("gateway-route-relation"),
		MetricsAddr:          viper.GetString("metrics-addr"),
		HealthAddr:           viper.GetString("health-addr"),

		LeaderElect:     viper.GetBool("leader-elect"),
		LeaderElectName: viper.GetString("leader-election-name"),
	}
}

//nolint:noinlineerr // inline error handling is fine here
func runController(_ *cobra.Command, _ []string) error {
	logger := setupLogger()
	slog.SetDefault(logger)

	ctrl.SetLogger(logr.FromSlogHandler(logger.Handler()))

	logger.Info("starting gateway-route-configurator",
		"version", version,
		"gitsha", gitsha,
	)

	cfg := controllerConfig()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := controller.Run(ctx, &cfg); err != nil {
		return errors.Wrap(err, "failed to run controller")
	}

	return nil
}
