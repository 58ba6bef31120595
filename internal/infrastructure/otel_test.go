package infrastructure

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"indentdesk/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestInitializeOTel_Metrics(t *testing.T) {
	providers, err := InitializeOTel(nil, testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)
	assert.Nil(t, providers.TracerProvider, "tracing is off by default")

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordStoreFetch(ctx, "INDENT", 120*time.Millisecond, nil)
	metrics.RecordCacheLookup(ctx, "INDENT", true)
	metrics.RecordDashboard(ctx, false)
	metrics.RecordTransition(ctx, "indent-approval", "approve")
	metrics.RecordHTTPRequest(ctx, http.MethodGet, "/api/v1/dashboard", http.StatusOK, 5*time.Millisecond)

	w := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "workflow_transitions_total")
}

func TestInitializeOTel_Tracing(t *testing.T) {
	appCfg := config.Default()
	appCfg.Telemetry = config.TelemetryConfig{
		ServiceName:   "indentdesk-test",
		Environment:   "test",
		EnableTracing: true,
		TraceExporter: "stdout",
		SampleRatio:   1.0,
	}
	appCfg.Store.Backend = config.BackendWorkbook

	var spans bytes.Buffer
	cfg := OTelConfigFrom(appCfg)
	cfg.TraceWriter = &spans

	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)

	ctx, span := otel.Tracer("test").Start(context.Background(), "analyze")
	traceID := TraceIDFromContext(ctx)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)
	span.End()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(shutdownCtx))

	assert.Contains(t, spans.String(), traceID)
	assert.Contains(t, spans.String(), "indentdesk.store.backend")
}

func TestInitializeOTel_IndependentRegistries(t *testing.T) {
	first, err := InitializeOTel(nil, testLogger())
	require.NoError(t, err)
	defer first.Shutdown(context.Background())

	second, err := InitializeOTel(nil, testLogger())
	require.NoError(t, err, "a second set of providers registers its own collectors")
	defer second.Shutdown(context.Background())

	assert.NotSame(t, first.MeterProvider, second.MeterProvider)
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	cfg := &OTelConfig{ServiceName: "x", EnableTracing: true, TraceExporter: "zipkin"}
	_, err := InitializeOTel(cfg, testLogger())
	assert.Error(t, err)
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var m *BusinessMetrics
	assert.NotPanics(t, func() {
		m.RecordStoreFetch(context.Background(), "USER", time.Second, assert.AnError)
		m.RecordCacheLookup(context.Background(), "USER", false)
	})
}
