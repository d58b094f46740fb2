package otelx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capai/xcommon/error/xerr"
)

type capturedRequest struct {
	path    string
	headers http.Header
}

// collector is a fake OTLP/HTTP ingestion endpoint.
type collector struct {
	mu   sync.Mutex
	reqs []capturedRequest
	srv  *httptest.Server
}

func newCollector(t *testing.T) *collector {
	t.Helper()
	c := &collector{}
	c.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.reqs = append(c.reqs, capturedRequest{path: r.URL.Path, headers: r.Header.Clone()})
		c.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(c.srv.Close)
	return c
}

func (c *collector) byPath(path string) []capturedRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []capturedRequest
	for _, r := range c.reqs {
		if r.path == path {
			out = append(out, r)
		}
	}
	return out
}

func TestSetup_DisabledWithoutKey(t *testing.T) {
	p, err := Setup(context.Background(), Config{Endpoint: "https://ingress.example.com"}, WithoutGlobals())

	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSetup_ManualRequiresEndpoint(t *testing.T) {
	_, err := Setup(context.Background(), Config{SendDataKey: "secret"}, WithoutGlobals())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSetup_UnknownMode(t *testing.T) {
	_, err := Setup(context.Background(), Config{Mode: "push-gateway"}, WithoutGlobals())

	require.Error(t, err)
	assert.True(t, xerr.HasCode(err, xerr.CodeConfiguration))
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, xerr.New(xerr.NewSimpleReason(xerr.CodeConfiguration, "configuration error"), nil))
}

func TestSetup_AutoExportNoneExporters(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("OTEL_METRICS_EXPORTER", "none")
	ctx := context.Background()

	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))

	p, err := Setup(ctx, Config{Mode: ModeAutoExport, ServiceName: "billing", SendDataKey: "secret"},
		WithoutGlobals(), WithLogger(log))
	require.NoError(t, err)
	require.True(t, p.Enabled())

	var line map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, "none", line["traces"])
	assert.Equal(t, "none", line["metrics"])

	_, span := p.Tracer("otelx-test").Start(ctx, "operation")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	counter, err := p.Meter("otelx-test").Int64Counter("pings")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(shutdownCtx))
	assert.NoError(t, p.Shutdown(shutdownCtx))
}

func TestSetup_ManualExportsWithIngestionHeaders(t *testing.T) {
	col := newCollector(t)
	ctx := context.Background()

	p, err := Setup(ctx, Config{
		Mode:            ModeManual,
		Endpoint:        col.srv.URL,
		ServiceName:     "billing",
		ApplicationName: "capai",
		SendDataKey:     "secret",
		Headers:         map[string]string{"X-Team": "platform"},
		MetricInterval:  time.Hour,
	}, WithoutGlobals())
	require.NoError(t, err)
	require.True(t, p.Enabled())

	_, span := p.Tracer("otelx-test").Start(ctx, "operation")
	span.End()

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(shutdownCtx))

	traces := col.byPath(tracesPath)
	require.NotEmpty(t, traces, "expected a trace export request")
	h := traces[0].headers
	assert.Equal(t, "Bearer secret", h.Get(HeaderAuthorization))
	assert.Equal(t, "capai", h.Get(HeaderApplicationName))
	assert.Equal(t, "billing", h.Get(HeaderSubsystemName))
	assert.Equal(t, "platform", h.Get("X-Team"))
}

func TestSetup_PrometheusReader(t *testing.T) {
	col := newCollector(t)
	reg := prometheus.NewRegistry()
	ctx := context.Background()

	p, err := Setup(ctx, Config{
		Endpoint:       col.srv.URL,
		ServiceName:    "billing",
		SendDataKey:    "secret",
		Prometheus:     true,
		MetricInterval: time.Hour,
	}, WithoutGlobals(), WithPrometheusRegisterer(reg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	counter, err := p.Meter("otelx-test").Int64Counter("pings")
	require.NoError(t, err)
	counter.Add(ctx, 2)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "pings_total")
}

func TestSignalURL(t *testing.T) {
	tests := []struct {
		endpoint string
		path     string
		want     string
	}{
		{"http://collector:4318", tracesPath, "http://collector:4318/v1/traces"},
		{"http://collector:4318/", metricsPath, "http://collector:4318/v1/metrics"},
		{"ingress.eu2.example.com:443", tracesPath, "https://ingress.eu2.example.com:443/v1/traces"},
		{"https://collector/v1/traces", metricsPath, "https://collector/v1/metrics"},
		{"https://collector/otlp", tracesPath, "https://collector/otlp/v1/traces"},
	}
	for _, tt := range tests {
		got, err := signalURL(tt.endpoint, tt.path)
		require.NoError(t, err, tt.endpoint)
		assert.Equal(t, tt.want, got, tt.endpoint)
	}

	_, err := signalURL("ftp://collector", tracesPath)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestExportHeaders_KeyCannotBeOverridden(t *testing.T) {
	h := exportHeaders(Config{
		SendDataKey: "secret",
		Headers:     map[string]string{HeaderAuthorization: "Bearer other"},
	})

	assert.Equal(t, "Bearer secret", h[HeaderAuthorization])
	assert.NotContains(t, h, HeaderApplicationName)
}

func TestBuildPropagator(t *testing.T) {
	plain := buildPropagator(Config{Propagators: []string{"tracecontext"}})
	assert.Contains(t, plain.Fields(), "traceparent")
	assert.NotContains(t, plain.Fields(), "sentry-trace")

	bridged := buildPropagator(Config{Propagators: []string{"tracecontext", "baggage"}, SentryBridge: true})
	assert.Contains(t, bridged.Fields(), "traceparent")
	assert.Contains(t, bridged.Fields(), "sentry-trace")

	fallback := buildPropagator(Config{Propagators: []string{"not-a-propagator"}})
	assert.Contains(t, fallback.Fields(), "traceparent")
}
