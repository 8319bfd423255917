package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jannathh/Scentify-Project/internal/auth"
	"github.com/jannathh/Scentify-Project/internal/catalog"
	"github.com/jannathh/Scentify-Project/internal/domain"
	"github.com/jannathh/Scentify-Project/internal/repository"
	"github.com/jannathh/Scentify-Project/internal/repository/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPublisher) record(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, name)
	return p.err
}

func (p *recordingPublisher) PublishCartUpdated(context.Context, string, domain.Cart) error {
	return p.record("cart.updated")
}

func (p *recordingPublisher) PublishWishlistUpdated(context.Context, string, domain.Wishlist) error {
	return p.record("wishlist.updated")
}

func (p *recordingPublisher) PublishUserRegistered(context.Context, string, *domain.User) error {
	return p.record("user.registered")
}

func (p *recordingPublisher) PublishOrderPlaced(context.Context, string, domain.Order) error {
	return p.record("order.placed")
}

func (p *recordingPublisher) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func newRegistry(t *testing.T, backend repository.Backend, pub EventPublisher) *Registry {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	r := NewRegistry(Deps{
		Backend:  backend,
		Verifier: newVerifier(t),
		Sensors:  &fakeSource{},
		Catalog:  cat,
		Events:   pub,
	})
	t.Cleanup(r.Close)
	return r
}

func TestRegistry_GetReturnsSameClient(t *testing.T) {
	r := newRegistry(t, memory.New(), nil)
	ctx := context.Background()

	a := r.Get(ctx, "c1")
	b := r.Get(ctx, "c1")
	c := r.Get(ctx, "c2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_HydratesInBackground(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	seed := newSession(t, backend, "c1")
	require.True(t, seed.Login(ctx, auth.DemoEmail, auth.DemoPassword))

	r := newRegistry(t, backend, nil)
	c := r.Get(ctx, "c1")

	assert.Eventually(t, func() bool { return !c.IsLoading() }, time.Second, 5*time.Millisecond)
	assert.True(t, c.Session.IsAuthenticated())
}

func TestRegistry_EvictsIdleClients(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	r := newRegistry(t, backend, nil)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	c := r.Get(ctx, "c1")
	c.Cart.AddItem(ctx, amberOud(2))

	now = now.Add(30 * time.Minute)
	r.Get(ctx, "c2")

	now = now.Add(45 * time.Minute)
	assert.Equal(t, 1, r.Evict(time.Hour))
	assert.Equal(t, 1, r.Len())

	back := r.Get(ctx, "c1")
	assert.NotSame(t, c, back)
	back.Hydrate(ctx)
	assert.Equal(t, 2, back.Cart.ItemCount())
}

func TestRegistry_NewClientIsSeenOnCreation(t *testing.T) {
	r := newRegistry(t, memory.New(), nil)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	c := r.Get(context.Background(), "c1")

	assert.Equal(t, now, c.idleSince())
	assert.Zero(t, r.Evict(time.Minute))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	r := newRegistry(t, memory.New(), pub)

	c := r.Get(ctx, "c1")
	c.Cart.AddItem(ctx, amberOud(1))
	c.Wishlist.Add(ctx, entry(7))
	c.Session.Register(ctx, domain.ProfileFields{Email: "a@b.com", FirstName: "A", LastName: "B"}, "password1")

	assert.Eventually(t, func() bool { return len(pub.seen()) == 3 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"cart.updated", "wishlist.updated", "user.registered"}, pub.seen())
}

func TestRegistry_PublishFailureDoesNotBlockCommands(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	r := newRegistry(t, memory.New(), pub)

	c := r.Get(ctx, "c1")
	cart := c.Cart.AddItem(ctx, amberOud(1))

	assert.Equal(t, 1, cart.ItemCount)
	assert.Eventually(t, func() bool { return len(pub.seen()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestRegistry_EvictedClientStopsPublishing(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	r := newRegistry(t, memory.New(), pub)

	c := r.Get(ctx, "c1")
	c.Hydrate(ctx)
	require.Equal(t, 1, r.Evict(-time.Hour))

	c.Cart.AddItem(ctx, amberOud(1))
	r.Close()
	assert.Empty(t, pub.seen())
}
