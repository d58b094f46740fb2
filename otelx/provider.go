// Package otelx bootstraps OpenTelemetry trace and metric export for a
// service, either to an OTLP/HTTP ingestion endpoint authenticated with a
// send-data key or through the standard OTEL_* variables.
package otelx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/capai/xcommon/error/xerr"
)

// ErrConfiguration matches setup failures caused by the telemetry settings.
var ErrConfiguration = xerr.New(xerr.NewSimpleReason(xerr.CodeConfiguration, "telemetry configuration error"), nil)

// Provider owns the tracer and meter providers built by Setup.
type Provider struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Propagator     propagation.TextMapPropagator

	enabled  bool
	stoppers []func(context.Context) error
	log      *slog.Logger
}

// Setup builds the providers for cfg.Mode. Without a send-data key the manual
// mode returns a disabled provider backed by no-op implementations.
func Setup(ctx context.Context, cfg Config, opts ...Option) (*Provider, error) {
	o := newOptions(opts)

	var (
		p   *Provider
		err error
	)
	switch cfg.Mode {
	case ModeAutoExport:
		p, err = setupAutoExport(ctx, cfg, o)
	case ModeManual, "":
		p, err = setupManual(ctx, cfg, o)
	default:
		return nil, xerr.Configuration(xerr.CodeConfiguration, fmt.Sprintf("otelx: unknown mode %q", string(cfg.Mode)), nil)
	}
	if err != nil {
		return nil, err
	}

	if p.enabled && o.setGlobals {
		otel.SetTracerProvider(p.TracerProvider)
		otel.SetMeterProvider(p.MeterProvider)
		otel.SetTextMapPropagator(p.Propagator)
	}
	return p, nil
}

func disabled(o *options) *Provider {
	return &Provider{
		TracerProvider: tracenoop.NewTracerProvider(),
		MeterProvider:  metricnoop.NewMeterProvider(),
		Propagator:     propagation.TraceContext{},
		log:            o.log,
	}
}

func (p *Provider) Enabled() bool { return p.enabled }

func (p *Provider) Tracer(name string) trace.Tracer { return p.TracerProvider.Tracer(name) }

func (p *Provider) Meter(name string) metric.Meter { return p.MeterProvider.Meter(name) }

func (p *Provider) registerStopper(fn func(context.Context) error) {
	p.stoppers = append(p.stoppers, fn)
}

// Shutdown flushes and stops the providers in reverse order of creation.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	for i := len(p.stoppers) - 1; i >= 0; i-- {
		if err := p.stoppers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.stoppers = nil
	if err := errors.Join(errs...); err != nil {
		p.log.Error("telemetry shutdown failed", "err", err)
		return err
	}
	return nil
}
