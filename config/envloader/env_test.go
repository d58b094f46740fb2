package envloader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/capai/xcommon/config"
	"github.com/capai/xcommon/sentryx"
)

type TestConfig struct {
	Server struct {
		Host string `env:"SERVER_HOST"`
		Port int    `env:"SERVER_PORT"`
	}
	Debug bool `env:"DEBUG"`
}

func TestLoad_SuccessfulLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_HOST", "localhost")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DEBUG", "true")

	var cfg TestConfig
	if err := Load(&cfg); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Server.Host != "localhost" {
		t.Errorf("Expected server.host=localhost, got: %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected server.port=8080, got: %d", cfg.Server.Port)
	}
	if !cfg.Debug {
		t.Errorf("Expected debug=true, got: %t", cfg.Debug)
	}
}

func TestLoad_NilDestination(t *testing.T) {
	err := Load(nil)
	if err == nil {
		t.Fatal("Expected error for nil destination, got nil")
	}
	if !strings.Contains(err.Error(), "envloader: Load called with nil destination") {
		t.Errorf("Expected specific error message, got: %s", err.Error())
	}
}

func TestLoad_InvalidTypeConversion(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	var cfg TestConfig
	err := Load(&cfg)
	if err == nil {
		t.Fatal("Expected error for invalid type conversion, got nil")
	}
	if !strings.Contains(err.Error(), "envloader: parse:") {
		t.Errorf("Expected parse error, got: %s", err.Error())
	}
}

func TestLoad_DotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "service.env")
	content := "XC_TEST_HOST=dotenv-host\nXC_TEST_PORT=9000\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("XC_TEST_HOST", "process-host")
	// godotenv sets variables with os.Setenv; register them for cleanup
	t.Setenv("XC_TEST_PORT", "")
	_ = os.Unsetenv("XC_TEST_PORT")

	var cfg struct {
		Host string `env:"XC_TEST_HOST"`
		Port int    `env:"XC_TEST_PORT"`
	}
	if err := New().Load(context.Background(), path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Host != "process-host" {
		t.Errorf("process env should win, got %q", cfg.Host)
	}
	if cfg.Port != 9000 {
		t.Errorf("expected port from dotenv, got %d", cfg.Port)
	}
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	var cfg TestConfig
	err := New().Load(context.Background(), filepath.Join(t.TempDir(), "absent.env"), &cfg)
	if err != nil {
		t.Fatalf("missing dotenv should be ignored, got: %v", err)
	}
}

func TestLoad_Prefix(t *testing.T) {
	t.Setenv("APP_SERVER_HOST", "prefixed")
	t.Setenv("SERVER_HOST", "bare")

	var cfg TestConfig
	if err := New(WithPrefix("APP_")).Load(context.Background(), "", &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Host != "prefixed" {
		t.Errorf("expected prefixed value, got %q", cfg.Server.Host)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var cfg TestConfig
	if err := New().Load(ctx, "", &cfg); err == nil {
		t.Fatal("expected context error")
	}
}

func TestLoad_Settings(t *testing.T) {
	t.Setenv(sentryx.FunctionEnvVar, "")
	t.Setenv("SENTRY_DSN", "https://public@sentry.example.com/1")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SENTRY_FLUSH_TIMEOUT", "5s")
	t.Setenv("SENTRY_FLAVOR", "function")
	t.Setenv("CORALOGIX_SEND_DATA_KEY", "secret")
	t.Setenv("OTEL_PROPAGATORS", "tracecontext,b3")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("HTTP_METRICS_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	s, err := config.Load(context.Background(), New(), filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}

	if s.Sentry.DSN != "https://public@sentry.example.com/1" || s.Sentry.Environment != "production" {
		t.Errorf("unexpected sentry settings: %+v", s.Sentry)
	}
	if s.Sentry.FlushTimeout != 5*time.Second {
		t.Errorf("expected 5s flush timeout, got %s", s.Sentry.FlushTimeout)
	}
	if s.SentryFlavor != sentryx.FlavorFunction {
		t.Errorf("expected function override, got %q", s.SentryFlavor)
	}
	if s.Otel.SendDataKey != "secret" || len(s.Otel.Propagators) != 2 || s.Otel.Environment != "production" {
		t.Errorf("unexpected otel settings: %+v", s.Otel)
	}
	if s.HTTP.Addr != ":9000" || !s.HTTP.Metrics.Enabled || !s.HTTP.Metrics.EnableGoCollector {
		t.Errorf("unexpected http settings: %+v", s.HTTP)
	}
	if s.Log.Level != "debug" || s.Log.ReportLevel != "error" {
		t.Errorf("unexpected log settings: %+v", s.Log)
	}
}
