package otelx

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/exporters/autoexport"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	exporterOn  = "exporting"
	exporterOff = "none"
)

// setupAutoExport lets OTEL_TRACES_EXPORTER / OTEL_METRICS_EXPORTER and the
// OTLP variables choose the exporters. "none" exporters are honoured.
func setupAutoExport(ctx context.Context, cfg Config, o *options) (*Provider, error) {
	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	p := &Provider{enabled: true, log: o.log}

	exp, err := autoexport.NewSpanExporter(ctx)
	if err != nil {
		return nil, fmt.Errorf("otelx: autoexport span exporter: %w", err)
	}

	traces := exporterOff
	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if !autoexport.IsNoneSpanExporter(exp) {
		traces = exporterOn
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exp))
	}
	tpOpts = append(tpOpts, sentrySpanProcessors(cfg)...)
	tp := sdktrace.NewTracerProvider(tpOpts...)
	p.TracerProvider = tp
	p.registerStopper(tp.Shutdown)

	reader, err := autoexport.NewMetricReader(ctx)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, fmt.Errorf("otelx: autoexport metric reader: %w", err)
	}

	metrics := exporterOff
	mpOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if !autoexport.IsNoneMetricReader(reader) {
		metrics = exporterOn
		mpOpts = append(mpOpts, sdkmetric.WithReader(reader))
	}
	mp := sdkmetric.NewMeterProvider(mpOpts...)
	p.MeterProvider = mp
	p.registerStopper(mp.Shutdown)

	p.Propagator = buildPropagator(cfg)

	o.log.Info("telemetry initialized",
		"mode", string(ModeAutoExport),
		"service", cfg.ServiceName,
		"traces", traces,
		"metrics", metrics,
	)
	return p, nil
}
