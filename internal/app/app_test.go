package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jannathh/Scentify-Project/internal/config"
	"github.com/jannathh/Scentify-Project/internal/event"
	"github.com/jannathh/Scentify-Project/internal/sensor"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)
	return cfg
}

func TestNewApp_InMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := NewApp(testConfig(t), logger)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Nil(t, a.producer)
	assert.Nil(t, a.pool)
	assert.Nil(t, a.redis)
	require.NoError(t, a.Shutdown())
}

func TestEventPublisher_DisabledKafka(t *testing.T) {
	a := &App{cfg: testConfig(t), logger: slog.Default()}
	pub, err := a.eventPublisher(nil)
	require.NoError(t, err)
	assert.IsType(t, event.Noop{}, pub)
}

func TestSensorSource_Selection(t *testing.T) {
	cfg := testConfig(t)
	a := &App{cfg: cfg, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	src, err := a.sensorSource(context.Background(), nil)
	require.NoError(t, err)
	assert.IsType(t, &sensor.Simulator{}, src)
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	a, err := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	a.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.Run(ctx))
}
