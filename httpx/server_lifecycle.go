package httpx

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// Start binds the listener and serves in the background. Bind errors are
// returned; serve errors after that are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		s.log.Info("http server starting", "name", s.cfg.Name, "addr", ln.Addr().String())
		if err := s.httpS.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server failed", "err", err)
		}
	}()
	return nil
}

// Addr is the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

func (s *Server) Stop() error {
	stopCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.log.Info("http server stopping", "name", s.cfg.Name, "timeout", s.cfg.ShutdownTimeout.String())

	var errs []error

	if s.httpS != nil {
		if err := s.httpS.Shutdown(stopCtx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.stopAll(stopCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Server) registerStopper(fn func(context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stoppers = append(s.stoppers, fn)
}

// stopAll runs the stoppers once, last registered first.
func (s *Server) stopAll(ctx context.Context) error {
	s.mu.Lock()
	stoppers := s.stoppers
	s.stoppers = nil
	s.mu.Unlock()

	var errs []error
	for i := len(stoppers) - 1; i >= 0; i-- {
		if err := stoppers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
