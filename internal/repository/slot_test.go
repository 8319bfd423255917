package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jannathh/Scentify-Project/pkg/breaker"
)

type fakeBackend struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
	calls  int

	// state of the last call's context, captured while the call ran
	sawErr      error
	sawDeadline bool
}

func (f *fakeBackend) observe(ctx context.Context) {
	f.calls++
	f.sawErr = ctx.Err()
	_, f.sawDeadline = ctx.Deadline()
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: map[string][]byte{}}
}

func (f *fakeBackend) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observe(ctx)
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.data[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return d, nil
}

func (f *fakeBackend) Set(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observe(ctx)
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = data
	return nil
}

func (f *fakeBackend) Ping(context.Context) error { return nil }

type line struct {
	ProductID int    `json:"productId"`
	Size      string `json:"size"`
}

func TestKey(t *testing.T) {
	assert.Equal(t, "abc:cart", Key("abc", SlotCart))
}

func TestSlot_Load(t *testing.T) {
	def := []line{}

	tests := []struct {
		name   string
		seed   string
		getErr error
		want   LoadStatus
		lines  int
	}{
		{"hit", `[{"productId":1,"size":"50ml"}]`, nil, LoadHit, 1},
		{"missing", "", nil, LoadMissing, 0},
		{"corrupt", `{"oops"`, nil, LoadCorrupt, 0},
		{"wrong shape", `{"productId":1}`, nil, LoadCorrupt, 0},
		{"unavailable", "", errors.New("dial tcp: refused"), LoadUnavailable, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend()
			b.getErr = tt.getErr
			if tt.seed != "" {
				b.data["c1:cart"] = []byte(tt.seed)
			}

			got, status := NewSlot[[]line](b, "c1", SlotCart).Load(context.Background(), def)
			assert.Equal(t, tt.want, status)
			assert.Len(t, got, tt.lines)
		})
	}
}

func TestSlot_NilBackend(t *testing.T) {
	slot := NewSlot[[]line](nil, "c1", SlotCart)

	got, status := slot.Load(context.Background(), []line{})
	assert.Equal(t, LoadUnavailable, status)
	assert.NotNil(t, got)

	assert.ErrorIs(t, slot.Save(context.Background(), nil), ErrNoBackend)
}

func TestSlot_SaveReportsFailure(t *testing.T) {
	b := newFakeBackend()
	b.setErr = errors.New("quota exceeded")

	err := NewSlot[[]line](b, "c1", SlotCart).Save(context.Background(), []line{{ProductID: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSlot_SaveSurvivesCanceledRequest(t *testing.T) {
	b := newFakeBackend()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slot := NewSlot[[]line](b, "c1", SlotCart, WithTimeout(time.Second))
	require.NoError(t, slot.Save(ctx, []line{{ProductID: 2, Size: "50ml"}}))

	assert.NoError(t, b.sawErr)
	assert.True(t, b.sawDeadline)
}

func TestLoadStatus_String(t *testing.T) {
	assert.Equal(t, "hit", LoadHit.String())
	assert.Equal(t, "unavailable", LoadUnavailable.String())
	assert.Equal(t, "unknown", LoadStatus(42).String())
}

func TestWithBreaker_OpensAfterFailures(t *testing.T) {
	b := newFakeBackend()
	b.getErr = errors.New("connection refused")

	cfg := breaker.DefaultConfig("test-slots-open")
	cfg.MinRequests = 2
	wrapped := WithBreaker(b, cfg, nil)

	for i := 0; i < 2; i++ {
		_, err := wrapped.Get(context.Background(), "c1:cart")
		require.Error(t, err)
	}
	callsBefore := b.calls

	_, err := wrapped.Get(context.Background(), "c1:cart")
	assert.ErrorIs(t, err, breaker.ErrOpen)
	assert.Equal(t, callsBefore, b.calls, "open breaker must not call through")

	_, status := NewSlot[[]line](wrapped, "c1", SlotCart).Load(context.Background(), nil)
	assert.Equal(t, LoadUnavailable, status)
}

func TestWithBreaker_MissingSlotIsNotAFailure(t *testing.T) {
	b := newFakeBackend()
	cfg := breaker.DefaultConfig("test-slots-missing")
	cfg.MinRequests = 2
	wrapped := WithBreaker(b, cfg, nil)

	for i := 0; i < 5; i++ {
		_, err := wrapped.Get(context.Background(), "c1:cart")
		assert.ErrorIs(t, err, ErrSlotNotFound)
	}
	assert.NoError(t, wrapped.Set(context.Background(), "c1:cart", []byte("[]")))
}
