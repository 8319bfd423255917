package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jannathh/Scentify-Project/internal/domain"
	pkgkafka "github.com/jannathh/Scentify-Project/pkg/kafka"
	"github.com/jannathh/Scentify-Project/pkg/logger"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	return m.Called(ctx, topic, event).Error(0)
}

func newTestProducer(pub publisher) *Producer {
	return &Producer{kafka: pub, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestPublishCartUpdated(t *testing.T) {
	pub := &mockPublisher{}
	var got *pkgkafka.Event
	pub.On("Publish", mock.Anything, "scentify.cart.updated", mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(2).(*pkgkafka.Event) }).
		Return(nil)

	cart := domain.NewCart([]domain.CartLine{{ProductID: 1, Size: "50ml", Quantity: 3, UnitPrice: 15999}})
	ctx := logger.WithCorrelationID(context.Background(), "req-1")
	require.NoError(t, newTestProducer(pub).PublishCartUpdated(ctx, "client-1", cart))

	pub.AssertExpectations(t)
	require.NotNil(t, got)
	assert.Equal(t, pkgkafka.EventCartUpdated, got.EventType)
	assert.Equal(t, "client-1", got.AggregateID)
	assert.Equal(t, "req-1", got.CorrelationID)

	var data CartUpdatedData
	require.NoError(t, got.UnmarshalData(&data))
	assert.Equal(t, 3, data.ItemCount)
	assert.Equal(t, int64(47997), data.Subtotal)
	assert.Equal(t, "AED", data.Currency)
}

func TestPublishOrderPlaced_OmitsCard(t *testing.T) {
	pub := &mockPublisher{}
	var got *pkgkafka.Event
	pub.On("Publish", mock.Anything, "scentify.order.placed", mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(2).(*pkgkafka.Event) }).
		Return(nil)

	order := domain.Order{
		Number:    "ORD-123456",
		Lines:     []domain.CartLine{{ProductID: 2, Size: "100ml", Quantity: 1, UnitPrice: 18999}},
		Totals:    domain.Totals{Subtotal: 18999, Shipping: 1299, Tax: 1520, Total: 21818},
		Shipping:  domain.ShippingInfo{Email: "a@b.co", Country: "UAE"},
		CardLast4: "4242",
	}
	require.NoError(t, newTestProducer(pub).PublishOrderPlaced(context.Background(), "client-1", order))

	assert.Equal(t, "ORD-123456", got.AggregateID)
	assert.NotContains(t, string(got.Data), "4242")
	var data OrderPlacedData
	require.NoError(t, got.UnmarshalData(&data))
	assert.Equal(t, int64(21818), data.Total)
}

func TestPublishWishlistAndUser(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, "scentify.wishlist.updated", mock.Anything).Return(nil)
	pub.On("Publish", mock.Anything, "scentify.user.registered", mock.Anything).Return(nil)

	p := newTestProducer(pub)
	w := domain.NewWishlist([]domain.WishlistEntry{{ProductID: 5}, {ProductID: 7}})
	require.NoError(t, p.PublishWishlistUpdated(context.Background(), "client-1", w))
	require.NoError(t, p.PublishUserRegistered(context.Background(), "client-1", &domain.User{ID: "u-1", Email: "x@y.z"}))

	pub.AssertExpectations(t)
}

func TestPublish_WrapsBrokerError(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("leader not available"))

	err := newTestProducer(pub).PublishCartUpdated(context.Background(), "c", domain.NewCart(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart.updated")
	assert.Contains(t, err.Error(), "leader not available")
}

func TestNoop(t *testing.T) {
	var n Noop
	assert.NoError(t, n.PublishCartUpdated(context.Background(), "c", domain.NewCart(nil)))
	assert.NoError(t, n.PublishOrderPlaced(context.Background(), "c", domain.Order{}))
}
