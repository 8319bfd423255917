// Package event publishes storefront notifications to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jannathh/Scentify-Project/internal/domain"
	pkgkafka "github.com/jannathh/Scentify-Project/pkg/kafka"
	"github.com/jannathh/Scentify-Project/pkg/logger"
)

// Aggregate types.
const (
	AggregateCart     = "cart"
	AggregateWishlist = "wishlist"
	AggregateUser     = "user"
	AggregateOrder    = "order"
)

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	ClientID  string            `json:"client_id"`
	Lines     []domain.CartLine `json:"lines"`
	ItemCount int               `json:"item_count"`
	Subtotal  int64             `json:"subtotal"`
	Currency  string            `json:"currency"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	ClientID   string `json:"client_id"`
	ProductIDs []int  `json:"product_ids"`
}

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ClientID  string `json:"client_id"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	ClientID string            `json:"client_id"`
	Number   string            `json:"number"`
	Lines    []domain.CartLine `json:"lines"`
	Subtotal int64             `json:"subtotal"`
	Shipping int64             `json:"shipping"`
	Tax      int64             `json:"tax"`
	Total    int64             `json:"total"`
	Currency string            `json:"currency"`
	Email    string            `json:"email"`
	Country  string            `json:"country"`
}

// publisher is satisfied by *pkgkafka.Producer.
type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, clientID string, cart domain.Cart) error {
	return p.publish(ctx, pkgkafka.EventCartUpdated, clientID, AggregateCart, CartUpdatedData{
		ClientID:  clientID,
		Lines:     cart.Lines,
		ItemCount: cart.ItemCount,
		Subtotal:  cart.Subtotal,
		Currency:  domain.Currency,
	})
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, clientID string, w domain.Wishlist) error {
	ids := make([]int, len(w.Entries))
	for i, e := range w.Entries {
		ids[i] = e.ProductID
	}
	return p.publish(ctx, pkgkafka.EventWishlistUpdated, clientID, AggregateWishlist, WishlistUpdatedData{
		ClientID:   clientID,
		ProductIDs: ids,
	})
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, clientID string, u *domain.User) error {
	return p.publish(ctx, pkgkafka.EventUserRegistered, u.ID, AggregateUser, UserRegisteredData{
		ClientID:  clientID,
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
}

// PublishOrderPlaced publishes an order.placed event. Card details never leave the order record.
func (p *Producer) PublishOrderPlaced(ctx context.Context, clientID string, o domain.Order) error {
	return p.publish(ctx, pkgkafka.EventOrderPlaced, o.Number, AggregateOrder, OrderPlacedData{
		ClientID: clientID,
		Number:   o.Number,
		Lines:    o.Lines,
		Subtotal: o.Totals.Subtotal,
		Shipping: o.Totals.Shipping,
		Tax:      o.Totals.Tax,
		Total:    o.Totals.Total,
		Currency: domain.Currency,
		Email:    o.Shipping.Email,
		Country:  o.Shipping.Country,
	})
}

func (p *Producer) publish(ctx context.Context, eventType, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(eventType, aggregateID, aggregateType, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, pkgkafka.TopicFor(eventType), event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("event_type", eventType),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}

// Noop drops every event. It is used when Kafka is disabled.
type Noop struct{}

func (Noop) PublishCartUpdated(context.Context, string, domain.Cart) error         { return nil }
func (Noop) PublishWishlistUpdated(context.Context, string, domain.Wishlist) error { return nil }
func (Noop) PublishUserRegistered(context.Context, string, *domain.User) error     { return nil }
func (Noop) PublishOrderPlaced(context.Context, string, domain.Order) error        { return nil }
