package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initMetrics() error {
	m := s.cfg.Metrics
	if !m.Enabled {
		return nil
	}

	var handler http.Handler
	if s.registry == nil {
		handler = promhttp.Handler()
	} else {
		if m.EnableGoCollector {
			if err := registerOnce(s.registry, collectors.NewGoCollector()); err != nil {
				return err
			}
		}
		if m.EnableProcessCollector {
			if err := registerOnce(s.registry, collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
				return err
			}
		}
		handler = promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
	}

	path := m.Path
	if path == "" {
		path = defaultMetricsPath
	}
	s.engine.GET(path, gin.WrapH(handler))
	return nil
}

func registerOnce(reg prometheus.Registerer, c prometheus.Collector) error {
	err := reg.Register(c)
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}
