package httpx

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// traceFilter reports whether a request gets a span.
func (s *Server) traceFilter() func(*http.Request) bool {
	excluded := make(map[string]struct{}, len(s.cfg.Tracing.ExcludePaths))
	for _, p := range s.cfg.Tracing.ExcludePaths {
		excluded[p] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, skip := excluded[r.URL.Path]
		return !skip
	}
}

// initTracing installs the gin middleware. The otelhttp variant wraps the
// engine later, in handler().
func (s *Server) initTracing() error {
	t := s.cfg.Tracing
	if !t.Enabled {
		return nil
	}

	switch t.Instrumentation {
	case InstrumentGin, "":
		opts := []otelgin.Option{otelgin.WithFilter(s.traceFilter())}
		if s.telemetry != nil {
			opts = append(opts,
				otelgin.WithTracerProvider(s.telemetry.TracerProvider),
				otelgin.WithPropagators(s.telemetry.Propagator),
			)
		}
		s.engine.Use(otelgin.Middleware(s.cfg.Name, opts...))
	case InstrumentHTTP:
		// wrapped around the engine in handler()
	default:
		return fmt.Errorf("unknown tracing instrumentation: %s", t.Instrumentation)
	}
	return nil
}

func (s *Server) handler() http.Handler {
	t := s.cfg.Tracing
	if !t.Enabled || t.Instrumentation != InstrumentHTTP {
		return s.engine
	}

	opts := []otelhttp.Option{
		otelhttp.WithServerName(s.cfg.Name),
		otelhttp.WithFilter(s.traceFilter()),
	}
	if s.telemetry != nil {
		opts = append(opts,
			otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
			otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
			otelhttp.WithPropagators(s.telemetry.Propagator),
		)
	}
	return otelhttp.NewHandler(s.engine, "http.server", opts...)
}
