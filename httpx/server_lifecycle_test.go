package httpx

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestServer_StartAndStop(t *testing.T) {
	var stopped []string
	srv, err := New(
		WithName("test-api"),
		WithAddr("127.0.0.1:0"),
		WithGinMode(gin.TestMode),
		WithRoutes(HealthRoutes),
		WithStopper(func(context.Context) error {
			stopped = append(stopped, "first")
			return nil
		}),
		WithStopper(func(context.Context) error {
			stopped = append(stopped, "second")
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	if err := srv.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	addr := srv.Addr()

	if err := waitForTCP(addr, time.Second); err != nil {
		t.Fatalf("server did not start listening: %v", err)
	}

	resp, err := http.Get("http://" + addr + HealthPath)
	if err != nil {
		t.Fatalf("http call failed: %v", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if err := srv.Stop(); err != nil {
		t.Fatalf("failed to stop server: %v", err)
	}

	if _, err := http.Get("http://" + addr + HealthPath); err == nil {
		t.Fatal("expected error after server stopped, got nil")
	}
	if len(stopped) != 2 || stopped[0] != "second" || stopped[1] != "first" {
		t.Fatalf("stoppers should run once in reverse order, got %v", stopped)
	}
}

func TestServer_StopJoinsStopperErrors(t *testing.T) {
	errA := errors.New("exporter flush failed")
	errB := errors.New("profiler stop failed")

	srv, err := New(
		WithAddr("127.0.0.1:0"),
		WithGinMode(gin.TestMode),
		WithStopper(func(context.Context) error { return errA }),
		WithStopper(func(context.Context) error { return errB }),
	)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	err = srv.Stop()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both stopper errors, got %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Fatalf("second stop should be a no-op, got %v", err)
	}
}

func TestServer_StartReportsBindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()

	srv, err := New(WithAddr(ln.Addr().String()), WithGinMode(gin.TestMode))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := srv.Start(); err == nil {
		t.Fatal("expected bind error on a busy address")
	}
}

func waitForTCP(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}
	return context.DeadlineExceeded
}
