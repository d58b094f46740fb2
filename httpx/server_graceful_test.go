package httpx

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestServer_RunGracefulContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := New(
		WithName("test-api"),
		WithAddr("127.0.0.1:0"),
		WithGinMode(gin.TestMode),
		WithRoutes(DiagnosticRoutes()),
	)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- srv.RunGracefulContext(ctx)
	}()

	var resp *http.Response
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if addr := srv.Addr(); addr != "127.0.0.1:0" {
			if resp, err = http.Get("http://" + addr + HealthPath); err == nil {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	if resp == nil {
		t.Fatalf("failed to call server: %v", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("server exited with error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shutdown gracefully in time")
	}
}
