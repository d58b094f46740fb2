package httpx

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/capai/xcommon/otelx"
)

type Option func(*Server)

func WithConfig(cfg Config) Option {
	return func(s *Server) { s.cfg = mergeConfig(s.cfg, cfg) }
}

func WithName(name string) Option {
	return func(s *Server) { s.cfg.Name = name }
}

func WithAddr(addr string) Option {
	return func(s *Server) { s.cfg.Addr = addr }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func WithGinMode(mode string) Option {
	return func(s *Server) { s.cfg.GinMode = mode }
}

func WithGinRelease() Option { return WithGinMode(gin.ReleaseMode) }

func WithTimeouts(readHeader, read, write, idle, shutdown time.Duration) Option {
	return func(s *Server) {
		if readHeader > 0 {
			s.cfg.ReadHeaderTimeout = readHeader
		}
		if read > 0 {
			s.cfg.ReadTimeout = read
		}
		if write > 0 {
			s.cfg.WriteTimeout = write
		}
		if idle > 0 {
			s.cfg.IdleTimeout = idle
		}
		if shutdown > 0 {
			s.cfg.ShutdownTimeout = shutdown
		}
	}
}

func WithMetrics(opts ...MetricsOption) Option {
	return func(s *Server) { s.cfg.Metrics = NewMetricConfig(opts...) }
}

// WithMetricsRegistry serves reg on the metrics path instead of the default
// Prometheus registry.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

func WithTracing(opts ...TracingOption) Option {
	return func(s *Server) { s.cfg.Tracing = NewTracingConfig(opts...) }
}

func WithoutTracing() Option {
	return func(s *Server) { s.cfg.Tracing.Enabled = false }
}

// WithTelemetry traces requests with p instead of the otel globals and shuts
// p down when the server stops.
func WithTelemetry(p *otelx.Provider) Option {
	return func(s *Server) {
		if p == nil {
			return
		}
		s.telemetry = p
		s.stoppers = append(s.stoppers, p.Shutdown)
	}
}

func WithSentry(flushTimeout time.Duration) Option {
	return func(s *Server) {
		s.cfg.Sentry.Enabled = true
		if flushTimeout > 0 {
			s.cfg.Sentry.FlushTimeout = flushTimeout
		}
	}
}

func WithProfiling(cfg ProfilingConfig) Option {
	return func(s *Server) { s.cfg.Profiling = cfg }
}

func WithPprof(cfg PprofConfig) Option {
	return func(s *Server) { s.cfg.Pprof = cfg }
}

// WithStopper runs fn on Stop, after the listener has shut down.
func WithStopper(fn func(context.Context) error) Option {
	return func(s *Server) {
		if fn != nil {
			s.stoppers = append(s.stoppers, fn)
		}
	}
}

func WithRoutes(fn Routes) Option {
	return func(s *Server) {
		if fn != nil {
			s.routeFns = append(s.routeFns, fn)
		}
	}
}

func mergeConfig(base, in Config) Config {
	// "in" overrides only non-zero / non-empty fields
	if in.Name != "" {
		base.Name = in.Name
	}
	if in.Addr != "" {
		base.Addr = in.Addr
	}
	if in.ReadHeaderTimeout > 0 {
		base.ReadHeaderTimeout = in.ReadHeaderTimeout
	}
	if in.ReadTimeout > 0 {
		base.ReadTimeout = in.ReadTimeout
	}
	if in.WriteTimeout > 0 {
		base.WriteTimeout = in.WriteTimeout
	}
	if in.IdleTimeout > 0 {
		base.IdleTimeout = in.IdleTimeout
	}
	if in.ShutdownTimeout > 0 {
		base.ShutdownTimeout = in.ShutdownTimeout
	}
	if in.GinMode != "" {
		base.GinMode = in.GinMode
	}

	// feature blocks are taken whole once enabled; empty fields keep defaults
	if in.Metrics.Enabled {
		if in.Metrics.Path == "" {
			in.Metrics.Path = base.Metrics.Path
		}
		base.Metrics = in.Metrics
	}
	if in.Tracing.Enabled {
		if in.Tracing.Instrumentation == "" {
			in.Tracing.Instrumentation = base.Tracing.Instrumentation
		}
		if in.Tracing.ExcludePaths == nil {
			in.Tracing.ExcludePaths = base.Tracing.ExcludePaths
		}
		base.Tracing = in.Tracing
	}
	if in.Sentry.Enabled {
		if in.Sentry.FlushTimeout <= 0 {
			in.Sentry.FlushTimeout = base.Sentry.FlushTimeout
		}
		base.Sentry = in.Sentry
	}
	if in.Profiling.Enabled {
		base.Profiling = in.Profiling
	}
	if in.Pprof.Enabled {
		if in.Pprof.Prefix == "" {
			in.Pprof.Prefix = base.Pprof.Prefix
		}
		base.Pprof = in.Pprof
	}
	return base
}
