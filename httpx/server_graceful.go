package httpx

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// RunGraceful starts the server and blocks until SIGINT/SIGTERM,
// then gracefully stops it using Server.Stop().
func (s *Server) RunGraceful() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.RunGracefulContext(ctx)
}

// RunGracefulContext starts the server and blocks until ctx is done,
// then gracefully stops it using Server.Stop().
func (s *Server) RunGracefulContext(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return errors.Join(err, s.stopAll(context.Background()))
	}

	<-ctx.Done()

	return s.Stop()
}
