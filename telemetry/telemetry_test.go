package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestConfigureLogger(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	require.NoError(t, ConfigureLogger("debug", "json"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	require.NoError(t, ConfigureLogger("warn", "text"))
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	assert.Error(t, ConfigureLogger("loud", "json"))
	assert.Error(t, ConfigureLogger("info", "xml"))
}

func TestWatermillLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(log.TraceLevel)

	adapter := NewWatermillLogger(logger).With(watermill.LogFields{"topic": "authtoken.issued"})

	adapter.Info("published", watermill.LogFields{"uuid": "1"})
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, log.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "authtoken.issued", hook.LastEntry().Data["topic"])
	assert.Equal(t, "1", hook.LastEntry().Data["uuid"])

	adapter.Error("publish failed", errors.New("boom"), nil)
	assert.Equal(t, log.ErrorLevel, hook.LastEntry().Level)
	assert.EqualError(t, hook.LastEntry().Data[log.ErrorKey].(error), "boom")

	adapter.Debug("debug", nil)
	assert.Equal(t, log.DebugLevel, hook.LastEntry().Level)

	adapter.Trace("trace", nil)
	assert.Equal(t, log.TraceLevel, hook.LastEntry().Level)
	assert.Len(t, hook.Entries, 4)
}

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.TokensIssued.Inc()
	m.TokenLookups.WithLabelValues(LookupHit).Inc()
	m.TokenLookups.WithLabelValues(LookupMiss).Add(2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.TokensIssued))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.TokenLookups.WithLabelValues(LookupMiss)))

	assert.Panics(t, func() { NewMetrics(reg) }, "collectors must not register twice")
}

func TestNewHealth(t *testing.T) {
	h, err := NewHealth("authtoken", "test", nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
}

func TestNewHealth_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	h, err := NewHealth("authtoken", "test", client)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	mr.Close()

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestObservabilityHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg).TokensIssued.Inc()

	healthz := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := NewObservabilityHandler(healthz, reg)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "authtoken_tokens_issued_total 1"))
}

func TestNewTracerProvider(t *testing.T) {
	ctx := context.Background()

	provider, err := NewTracerProvider(ctx, TracingConfig{ServiceName: "authtoken"})
	require.NoError(t, err)
	defer func() { assert.NoError(t, provider.Shutdown(ctx)) }()

	assert.Same(t, provider, otel.GetTracerProvider())
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())

	_, span := provider.Tracer("test").Start(ctx, "span")
	assert.True(t, span.SpanContext().IsSampled())
	span.End()
}
