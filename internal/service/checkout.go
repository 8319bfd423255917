package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/jannathh/Scentify-Project/internal/domain"
	apperrors "github.com/jannathh/Scentify-Project/pkg/errors"
	"github.com/jannathh/Scentify-Project/pkg/validator"
)

// Card is the payment step input. The number and CVV are never stored.
type Card struct {
	Name   string
	Number string
	Expiry string
}

// CheckoutView is what the checkout page shows.
type CheckoutView struct {
	Lines            []domain.CartLine   `json:"lines"`
	Totals           domain.Totals       `json:"totals"`
	Shipping         domain.ShippingInfo `json:"shipping"`
	ShippingComplete bool                `json:"shippingComplete"`
}

// Checkout runs the two-step checkout of one client. Shipping details live in
// memory only.
type Checkout struct {
	cart    *CartStore
	session *SessionStore
	orders  *OrderHistory
	delay   time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	shipping *domain.ShippingInfo
	placed   observers[domain.Order]

	newNumber func() string
	now       func() time.Time
}

func NewCheckout(cart *CartStore, session *SessionStore, orders *OrderHistory, paymentDelay time.Duration, logger *slog.Logger) *Checkout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checkout{
		cart:      cart,
		session:   session,
		orders:    orders,
		delay:     paymentDelay,
		logger:    logger,
		newNumber: orderNumber,
		now:       time.Now,
	}
}

// orderNumber is "ORD-" and six digits.
func orderNumber() string {
	return fmt.Sprintf("ORD-%d", 100000+rand.IntN(900000))
}

// OnPlaced registers fn to run after each placed order.
func (c *Checkout) OnPlaced(fn func(domain.Order)) func() {
	return c.placed.subscribe(fn)
}

// View returns the cart totals and the shipping form, prefilled from the
// profile until the shipping step is submitted.
func (c *Checkout) View() (CheckoutView, error) {
	u := c.session.User()
	if u == nil {
		return CheckoutView{}, ErrNotAuthenticated
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view(u), nil
}

func (c *Checkout) view(u *domain.User) CheckoutView {
	cart := c.cart.Cart()
	v := CheckoutView{
		Lines:    cart.Lines,
		Totals:   domain.ComputeTotals(cart.Lines),
		Shipping: domain.ShippingFromUser(u),
	}
	if c.shipping != nil {
		v.Shipping = *c.shipping
		v.ShippingComplete = true
	}
	return v
}

// SetShipping completes the first step.
func (c *Checkout) SetShipping(ctx context.Context, info domain.ShippingInfo) (CheckoutView, error) {
	u := c.session.User()
	if u == nil {
		return CheckoutView{}, ErrNotAuthenticated
	}
	if c.cart.ItemCount() == 0 {
		return CheckoutView{}, apperrors.Conflict("your cart is empty")
	}
	info = trimShipping(info)
	if err := validator.Validate(info); err != nil {
		return CheckoutView{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.shipping = &info
	c.logger.DebugContext(ctx, "shipping details saved")
	return c.view(u), nil
}

func trimShipping(s domain.ShippingInfo) domain.ShippingInfo {
	for _, f := range []*string{&s.FirstName, &s.LastName, &s.Email, &s.Address, &s.City, &s.State, &s.Zip, &s.Country, &s.Phone} {
		*f = strings.TrimSpace(*f)
	}
	return s
}

// PlaceOrder snapshots the cart, simulates card processing, then records the
// order, takes the ordered lines out of the cart and clears the shipping step.
// Lines added while the payment is processing stay in the cart. Canceling ctx
// during processing abandons the order.
func (c *Checkout) PlaceOrder(ctx context.Context, card Card) (domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.session.IsAuthenticated() {
		return domain.Order{}, ErrNotAuthenticated
	}
	if c.shipping == nil {
		return domain.Order{}, apperrors.Conflict("shipping details are required before payment")
	}
	cart := c.cart.Cart()
	if len(cart.Lines) == 0 {
		return domain.Order{}, apperrors.Conflict("your cart is empty")
	}

	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return domain.Order{}, fmt.Errorf("process payment: %w", ctx.Err())
		case <-timer.C:
		}
	}

	digits := strings.ReplaceAll(card.Number, " ", "")
	order := domain.Order{
		Number:     c.newNumber(),
		PlacedAt:   c.now().UTC(),
		Status:     domain.OrderStatusProcessing,
		Lines:      cart.Lines,
		Totals:     domain.ComputeTotals(cart.Lines),
		Shipping:   *c.shipping,
		CardLast4:  digits[max(len(digits)-4, 0):],
		CardHolder: strings.TrimSpace(card.Name),
	}

	c.orders.Append(ctx, order)
	c.cart.Deduct(ctx, cart.Lines)
	c.shipping = nil
	ordersPlaced.Inc()
	c.logger.InfoContext(ctx, "order placed",
		slog.String("order", order.Number),
		slog.Int64("total", order.Totals.Total),
	)
	c.placed.notify(order)
	return order, nil
}
