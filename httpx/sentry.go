package httpx

import (
	"context"

	sentrygin "github.com/getsentry/sentry-go/gin"

	"github.com/capai/xcommon/sentryx"
)

// initSentry gives every request its own hub, reports panics and flushes
// buffered events when the server stops.
func (s *Server) initSentry() error {
	c := s.cfg.Sentry
	if !c.Enabled {
		return nil
	}

	s.engine.Use(sentrygin.New(sentrygin.Options{
		Repanic: c.Repanic,
		Timeout: c.FlushTimeout,
	}))

	s.registerStopper(func(context.Context) error {
		if !sentryx.Flush(c.FlushTimeout) {
			s.log.Warn("sentry flush timed out", "timeout", c.FlushTimeout.String())
		}
		return nil
	})
	return nil
}
