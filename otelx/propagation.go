package otelx

import (
	sentryotel "github.com/getsentry/sentry-go/otel"
	"go.opentelemetry.io/contrib/propagators/autoprop"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func buildPropagator(cfg Config) propagation.TextMapPropagator {
	p := basePropagator(cfg.Propagators)
	if !cfg.SentryBridge {
		return p
	}
	return propagation.NewCompositeTextMapPropagator(p, sentryotel.NewSentryPropagator())
}

func basePropagator(names []string) propagation.TextMapPropagator {
	if len(names) == 0 {
		return autoprop.NewTextMapPropagator()
	}
	p, err := autoprop.TextMapPropagator(names...)
	if err == nil {
		return p
	}
	p, err = autoprop.TextMapPropagator("tracecontext")
	if err == nil {
		return p
	}
	return propagation.TraceContext{}
}

// sentrySpanProcessors mirrors finished spans into Sentry performance data.
func sentrySpanProcessors(cfg Config) []sdktrace.TracerProviderOption {
	if !cfg.SentryBridge {
		return nil
	}
	return []sdktrace.TracerProviderOption{sdktrace.WithSpanProcessor(sentryotel.NewSentrySpanProcessor())}
}
