package otelx

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/capai/xcommon/error/xerr"
)

const (
	tracesPath  = "/v1/traces"
	metricsPath = "/v1/metrics"

	HeaderAuthorization   = "Authorization"
	HeaderApplicationName = "CX-Application-Name"
	HeaderSubsystemName   = "CX-Subsystem-Name"
)

func setupManual(ctx context.Context, cfg Config, o *options) (*Provider, error) {
	if cfg.SendDataKey == "" {
		o.log.Info("telemetry disabled", "reason", "no send-data key")
		return disabled(o), nil
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, xerr.Configuration(xerr.CodeConfiguration, "otelx: exporter endpoint is required", nil)
	}

	tracesURL, err := signalURL(cfg.Endpoint, tracesPath)
	if err != nil {
		return nil, err
	}
	metricsURL, err := signalURL(cfg.Endpoint, metricsPath)
	if err != nil {
		return nil, err
	}
	headers := exportHeaders(cfg)

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	p := &Provider{enabled: true, log: o.log}

	spanExp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(tracesURL),
		otlptracehttp.WithHeaders(headers),
	)
	if err != nil {
		return nil, fmt.Errorf("otelx: trace exporter: %w", err)
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithBatcher(spanExp),
		sdktrace.WithResource(res),
	}
	tpOpts = append(tpOpts, sentrySpanProcessors(cfg)...)
	tp := sdktrace.NewTracerProvider(tpOpts...)
	p.TracerProvider = tp
	p.registerStopper(tp.Shutdown)

	metricExp, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpointURL(metricsURL),
		otlpmetrichttp.WithHeaders(headers),
	)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, fmt.Errorf("otelx: metric exporter: %w", err)
	}

	mpOpts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp, sdkmetric.WithInterval(cfg.metricInterval()))),
	}
	if cfg.Prometheus {
		promExp, err := otelprom.New(otelprom.WithRegisterer(o.registerer))
		if err != nil {
			_ = p.Shutdown(ctx)
			return nil, fmt.Errorf("otelx: prometheus exporter: %w", err)
		}
		mpOpts = append(mpOpts, sdkmetric.WithReader(promExp))
	}
	mp := sdkmetric.NewMeterProvider(mpOpts...)
	p.MeterProvider = mp
	p.registerStopper(mp.Shutdown)

	p.Propagator = buildPropagator(cfg)

	o.log.Info("telemetry initialized",
		"mode", string(ModeManual),
		"service", cfg.ServiceName,
		"traces_url", tracesURL,
		"metrics_url", metricsURL,
		"prometheus", cfg.Prometheus,
	)
	return p, nil
}

// exportHeaders authenticates against the ingestion backend and names the
// application/subsystem pair the data lands under.
func exportHeaders(cfg Config) map[string]string {
	h := make(map[string]string, len(cfg.Headers)+3)
	for k, v := range cfg.Headers {
		h[k] = v
	}
	h[HeaderAuthorization] = "Bearer " + cfg.SendDataKey
	if cfg.ApplicationName != "" {
		h[HeaderApplicationName] = cfg.ApplicationName
	}
	if cfg.ServiceName != "" {
		h[HeaderSubsystemName] = cfg.ServiceName
	}
	return h
}

// signalURL turns the configured endpoint into the per-signal URL. Bare
// host:port endpoints default to https; a signal path already on the
// endpoint is replaced.
func signalURL(endpoint, signalPath string) (string, error) {
	raw := strings.TrimSpace(endpoint)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", xerr.Configuration(xerr.CodeConfiguration, "otelx: invalid endpoint", err)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", xerr.Configuration(xerr.CodeConfiguration, fmt.Sprintf("otelx: invalid endpoint %q", endpoint), nil)
	}
	base := strings.TrimRight(u.Path, "/")
	base = strings.TrimSuffix(base, tracesPath)
	base = strings.TrimSuffix(base, metricsPath)
	u.Path = base + signalPath
	return u.String(), nil
}
