package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/capai/xcommon/otelx"
)

type Server struct {
	cfg       Config
	log       *slog.Logger
	routeFns  []Routes
	registry  *prometheus.Registry
	telemetry *otelx.Provider

	mu       sync.Mutex
	stoppers []func(context.Context) error

	engine   *gin.Engine
	httpS    *http.Server
	listener net.Listener
}

// New builds the engine and its middlewares. Stoppers registered before a
// failure are run before the error is returned.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		cfg: defaultConfig(),
		log: slog.Default(),
	}

	for _, o := range opts {
		o(s)
	}

	if err := s.build(); err != nil {
		return nil, errors.Join(err, s.stopAll(context.Background()))
	}
	return s, nil
}

func (s *Server) Engine() *gin.Engine { return s.engine }

// Handler is what the listener serves: the engine, wrapped by otelhttp when
// that instrumentation is selected.
func (s *Server) Handler() http.Handler { return s.httpS.Handler }

func (s *Server) build() error {
	gin.SetMode(s.cfg.GinMode)

	s.engine = gin.New()
	s.engine.Use(gin.Recovery())

	// middlewares only apply to routes registered after them
	for _, setup := range []func() error{
		s.initSentry,
		s.initTracing,
		s.initProfiling,
	} {
		if err := setup(); err != nil {
			return err
		}
	}

	for _, fn := range s.routeFns {
		fn(s.engine)
	}

	if err := s.initMetrics(); err != nil {
		return err
	}
	if err := s.initPprof(); err != nil {
		return err
	}

	s.httpS = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}
	return nil
}
