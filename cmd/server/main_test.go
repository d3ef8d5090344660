package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/paymentinstructions/internal/adapter/http/handler"
	"github.com/iho/paymentinstructions/internal/adapter/http/middleware"
	"github.com/iho/paymentinstructions/internal/infrastructure/config"
)

const validBody = `{"accounts":[{"id":"A1","balance":500,"currency":"USD"},{"id":"A2","balance":10,"currency":"USD"}],` +
	`"instruction":"DEBIT 100 USD FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2"}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.ConnectMaxElapsed = 50 * time.Millisecond
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *app {
	t.Helper()
	registry := prometheus.NewRegistry()
	a, err := newApp(context.Background(), cfg, zerolog.Nop(), registry, registry)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func postInstruction(h http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payment-instructions", strings.NewReader(validBody))
	if key != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewApp_WithoutBackingServices(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	rec := postInstruction(a.router, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status_code":"AP00"`)

	ref := rec.Header().Get(handler.ReferenceHeader)
	_, err := ulid.ParseStrict(ref)
	assert.NoError(t, err, "reference %q should be a ULID", ref)

	ready := httptest.NewRecorder()
	a.router.ServeHTTP(ready, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, ready.Code)

	metricsRec := httptest.NewRecorder()
	a.router.ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, metricsRec.Code)
	assert.Contains(t, metricsRec.Body.String(), "payment_instructions_processed_total")
}

func TestNewApp_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsEnabled = false
	a := newTestApp(t, cfg)

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewApp_RedisIdempotency(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()
	a := newTestApp(t, cfg)

	first := postInstruction(a.router, "order-1")
	second := postInstruction(a.router, "order-1")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(middleware.IdempotencyReplayHeader))
	assert.Equal(t, first.Header().Get(handler.ReferenceHeader), second.Header().Get(handler.ReferenceHeader))

	ready := httptest.NewRecorder()
	a.router.ServeHTTP(ready, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.JSONEq(t, `{"status":"ready","redis":"ok"}`, ready.Body.String())
}

func TestNewApp_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.RedisURL = "redis://" + addr

	registry := prometheus.NewRegistry()
	_, err := newApp(context.Background(), cfg, zerolog.Nop(), registry, registry)
	assert.Error(t, err)
}

func TestNewApp_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimitRPS = 1
	cfg.RateLimitBurst = 1

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	a, err := newApp(ctx, cfg, zerolog.Nop(), registry, registry)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, http.StatusOK, postInstruction(a.router, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, postInstruction(a.router, "").Code)
}
