// Command diagserver runs an HTTP service exposing the health check and the
// Sentry diagnostic ping, with error reporting and telemetry bootstrapped
// from the environment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/capai/xcommon/config"
	"github.com/capai/xcommon/config/envloader"
	"github.com/capai/xcommon/config/koanfloader"
	"github.com/capai/xcommon/config/viperloader"
	"github.com/capai/xcommon/httpx"
	"github.com/capai/xcommon/logx"
	"github.com/capai/xcommon/otelx"
	"github.com/capai/xcommon/sentryx"
)

func main() {
	var (
		loaderName = flag.String("loader", "env", "settings loader: env, viper or koanf")
		path       = flag.String("config", "", "dotenv file for env, YAML file for viper and koanf")
	)
	flag.Parse()

	if err := run(context.Background(), *loaderName, *path); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func pickLoader(name string) (config.Loader, error) {
	switch name {
	case "env", "":
		return envloader.New(), nil
	case "viper":
		return viperloader.New(), nil
	case "koanf":
		return koanfloader.New(), nil
	default:
		return nil, fmt.Errorf("unknown loader %q", name)
	}
}

func run(ctx context.Context, loaderName, path string) error {
	loader, err := pickLoader(loaderName)
	if err != nil {
		return err
	}
	settings, err := config.Load(ctx, loader, path)
	if err != nil {
		return err
	}

	log := logx.Setup(settings.Log, logx.WithAttrs(slog.String("service", settings.Otel.ServiceName)))

	// a service without a DSN still serves its routes
	err = sentryx.Setup(settings.Sentry, sentryx.WithFlavor(settings.SentryFlavor), sentryx.WithLogger(log))
	switch {
	case err == nil:
		settings.HTTP.Sentry.Enabled = true
	case errors.Is(err, sentryx.ErrConfiguration) && !errors.Is(err, sentryx.ErrUnknownFlavor):
		log.Warn("sentry disabled", "err", err)
	default:
		return err
	}

	telemetry, err := otelx.Setup(ctx, settings.Otel, otelx.WithLogger(log))
	if err != nil {
		return err
	}
	if telemetry.Enabled() {
		settings.HTTP.Tracing.Enabled = true
	}
	if settings.Otel.Prometheus {
		settings.HTTP.Metrics.Enabled = true
	}

	srv, err := httpx.New(
		httpx.WithConfig(settings.HTTP),
		httpx.WithName(serviceName(settings)),
		httpx.WithLogger(log),
		httpx.WithTelemetry(telemetry),
		httpx.WithRoutes(httpx.DiagnosticRoutes()),
	)
	if err != nil {
		return errors.Join(err, telemetry.Shutdown(ctx))
	}
	return srv.RunGraceful()
}

func serviceName(s config.Settings) string {
	if s.Otel.ServiceName != "" {
		return s.Otel.ServiceName
	}
	if s.HTTP.Name != "" {
		return s.HTTP.Name
	}
	return "diagserver"
}
