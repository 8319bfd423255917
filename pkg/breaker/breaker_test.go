package breaker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(name string) Config {
	cfg := DefaultConfig(name)
	cfg.Timeout = 50 * time.Millisecond
	cfg.MinRequests = 3
	return cfg
}

func fail(context.Context) (string, error) { return "", errBackend }
func ok(context.Context) (string, error)   { return "ok", nil }

func TestBreaker_ClosedPassesThrough(t *testing.T) {
	b := New[string](testConfig("test-closed"), testLogger())

	v, err := b.Execute(context.Background(), ok)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.Equal(t, "test-closed", b.Name())
}

func TestBreaker_TripsAndRejects(t *testing.T) {
	b := New[string](testConfig("test-trip"), testLogger())

	for i := 0; i < 3; i++ {
		_, err := b.Execute(context.Background(), fail)
		require.ErrorIs(t, err, errBackend)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	called := false
	_, err := b.Execute(context.Background(), func(context.Context) (string, error) {
		called = true
		return "", nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreaker_RecoversAfterTimeout(t *testing.T) {
	b := New[string](testConfig("test-recover"), testLogger())
	for i := 0; i < 3; i++ {
		_, _ = b.Execute(context.Background(), fail)
	}
	require.Equal(t, gobreaker.StateOpen, b.State())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, gobreaker.StateHalfOpen, b.State())

	_, err := b.Execute(context.Background(), ok)
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_IsSuccessfulIgnoresExpectedErrors(t *testing.T) {
	errMissing := errors.New("missing")
	cfg := testConfig("test-missing")
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, errMissing) }
	b := New[string](cfg, testLogger())

	for i := 0; i < 5; i++ {
		_, err := b.Execute(context.Background(), func(context.Context) (string, error) { return "", errMissing })
		require.ErrorIs(t, err, errMissing)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_CanceledContextSkipsCall(t *testing.T) {
	b := New[string](testConfig("test-canceled"), testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := b.Execute(ctx, func(context.Context) (string, error) {
		called = true
		return "", nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStateValue(t *testing.T) {
	assert.Equal(t, 0.0, stateValue(gobreaker.StateClosed))
	assert.Equal(t, 1.0, stateValue(gobreaker.StateHalfOpen))
	assert.Equal(t, 2.0, stateValue(gobreaker.StateOpen))
}
