package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jannathh/Scentify-Project/internal/auth"
	"github.com/jannathh/Scentify-Project/internal/domain"
	"github.com/jannathh/Scentify-Project/internal/repository"
	"github.com/jannathh/Scentify-Project/internal/sensor"
	"github.com/jannathh/Scentify-Project/pkg/logger"
)

// EventPublisher receives storefront state changes. Implemented by
// event.Producer and event.Noop.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, clientID string, cart domain.Cart) error
	PublishWishlistUpdated(ctx context.Context, clientID string, w domain.Wishlist) error
	PublishUserRegistered(ctx context.Context, clientID string, u *domain.User) error
	PublishOrderPlaced(ctx context.Context, clientID string, o domain.Order) error
}

// Deps are the collaborators shared by every client.
type Deps struct {
	Backend      repository.Backend
	Verifier     auth.CredentialVerifier
	Sensors      sensor.Source
	Catalog      ScentCatalog
	Events       EventPublisher
	SlotTimeout  time.Duration
	PaymentDelay time.Duration
	Processing   time.Duration
	EventTimeout time.Duration
	Logger       *slog.Logger
}

// Client is the state of one browser: its stores, checkout and scent finder.
type Client struct {
	ID       string
	Cart     *CartStore
	Wishlist *WishlistStore
	Session  *SessionStore
	Orders   *OrderHistory
	Checkout *Checkout
	Finder   *ScentFinder

	mu       sync.Mutex
	lastSeen time.Time
	unsubs   []func()
}

// newClient builds the client's stores over its slots. The stores are not
// hydrated yet.
func newClient(id string, deps Deps, n *notifier) *Client {
	l := deps.Logger.With(slog.String("client_id", id))
	opts := []repository.SlotOption{repository.WithTimeout(deps.SlotTimeout), repository.WithLogger(l)}

	c := &Client{ID: id}
	c.Cart = NewCartStore(repository.NewSlot[[]domain.CartLine](deps.Backend, id, repository.SlotCart, opts...), l)
	c.Wishlist = NewWishlistStore(repository.NewSlot[[]domain.WishlistEntry](deps.Backend, id, repository.SlotWishlist, opts...), l)
	c.Session = NewSessionStore(repository.NewSlot[domain.Session](deps.Backend, id, repository.SlotSession, opts...), deps.Verifier, l)
	c.Orders = NewOrderHistory(repository.NewSlot[[]domain.Order](deps.Backend, id, repository.SlotOrders, opts...), l)
	c.Checkout = NewCheckout(c.Cart, c.Session, c.Orders, deps.PaymentDelay, l)
	c.Finder = NewScentFinder(deps.Sensors, deps.Catalog, deps.Processing, l)

	if n != nil {
		c.unsubs = append(c.unsubs,
			c.Cart.Subscribe(func(cart domain.Cart) {
				n.send(id, "cart.updated", func(ctx context.Context, p EventPublisher) error {
					return p.PublishCartUpdated(ctx, id, cart)
				})
			}),
			c.Wishlist.Subscribe(func(w domain.Wishlist) {
				n.send(id, "wishlist.updated", func(ctx context.Context, p EventPublisher) error {
					return p.PublishWishlistUpdated(ctx, id, w)
				})
			}),
			c.Session.OnRegister(func(u *domain.User) {
				n.send(id, "user.registered", func(ctx context.Context, p EventPublisher) error {
					return p.PublishUserRegistered(ctx, id, u)
				})
			}),
			c.Checkout.OnPlaced(func(o domain.Order) {
				n.send(id, "order.placed", func(ctx context.Context, p EventPublisher) error {
					return p.PublishOrderPlaced(ctx, id, o)
				})
			}),
		)
	}
	return c
}

// Hydrate loads every slot of the client. Safe to call more than once.
func (c *Client) Hydrate(ctx context.Context) {
	c.Session.Init(ctx)
	c.Cart.Init(ctx)
	c.Wishlist.Init(ctx)
	c.Orders.Init(ctx)
}

// IsLoading is true while the session slot has not been read yet.
func (c *Client) IsLoading() bool {
	return c.Session.IsLoading()
}

func (c *Client) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Client) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// dispose detaches observers and stops the scent finder.
func (c *Client) dispose() {
	c.mu.Lock()
	unsubs := c.unsubs
	c.unsubs = nil
	c.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
	c.Finder.Dispose()
}

// notifier publishes events off the command path, each bounded by a timeout.
type notifier struct {
	pub     EventPublisher
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func (n *notifier) send(clientID, event string, publish func(context.Context, EventPublisher) error) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		ctx = logger.WithClientID(ctx, clientID)

		if err := publish(ctx, n.pub); err != nil {
			logger.WithContext(ctx, n.logger).WarnContext(ctx, "failed to publish event",
				slog.String("event", event),
				slog.String("error", err.Error()),
			)
		}
	}()
}

func (n *notifier) wait() {
	n.wg.Wait()
}
