package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jannathh/Scentify-Project/internal/repository"
)

func TestBackend_GetMissing(t *testing.T) {
	_, err := New().Get(context.Background(), "c1:cart")
	assert.ErrorIs(t, err, repository.ErrSlotNotFound)
}

func TestBackend_SetThenGet(t *testing.T) {
	ctx := context.Background()
	b := New()

	data := []byte(`[{"productId":1}]`)
	require.NoError(t, b.Set(ctx, "c1:cart", data))
	data[0] = 'X'

	got, err := b.Get(ctx, "c1:cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"productId":1}]`, string(got), "stored bytes must not alias the caller's slice")
	assert.Equal(t, 1, b.Len())
	assert.NoError(t, b.Ping(ctx))
}

type cartLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func TestSlot_RoundTripAcrossColdStart(t *testing.T) {
	ctx := context.Background()
	b := New()

	first := repository.NewSlot[[]cartLine](b, "client-1", repository.SlotCart)
	require.NoError(t, first.Save(ctx, []cartLine{{ProductID: 1, Quantity: 3}}))

	second := repository.NewSlot[[]cartLine](b, "client-1", repository.SlotCart)
	got, status := second.Load(ctx, nil)
	assert.Equal(t, repository.LoadHit, status)
	assert.Equal(t, []cartLine{{ProductID: 1, Quantity: 3}}, got)

	other := repository.NewSlot[[]cartLine](b, "client-2", repository.SlotCart)
	got, status = other.Load(ctx, []cartLine{})
	assert.Equal(t, repository.LoadMissing, status)
	assert.Empty(t, got)
}
