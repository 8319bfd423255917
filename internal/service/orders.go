package service

import (
	"context"
	"log/slog"

	"github.com/jannathh/Scentify-Project/internal/domain"
	"github.com/jannathh/Scentify-Project/internal/repository"
)

// OrderHistory keeps a client's placed orders, oldest first in the slot.
type OrderHistory struct {
	slotStore[[]domain.Order, []domain.Order]
	orders []domain.Order
}

func NewOrderHistory(slot *repository.Slot[[]domain.Order], logger *slog.Logger) *OrderHistory {
	s := &OrderHistory{}
	s.init(slot, logger)
	return s
}

func (s *OrderHistory) Init(ctx context.Context) repository.LoadStatus {
	return s.hydrate(ctx, nil, func(orders []domain.Order) {
		s.orders = orders
	})
}

// Append records a placed order.
func (s *OrderHistory) Append(ctx context.Context, o domain.Order) {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, o)
	s.persist(ctx, append([]domain.Order{}, s.orders...))
	s.observers.notify(s.newestFirst())
}

// List returns the orders newest first.
func (s *OrderHistory) List() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newestFirst()
}

func (s *OrderHistory) newestFirst() []domain.Order {
	out := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		out[len(s.orders)-1-i] = o
	}
	return out
}
