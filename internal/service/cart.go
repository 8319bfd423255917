package service

import (
	"context"
	"log/slog"

	"github.com/jannathh/Scentify-Project/internal/domain"
	"github.com/jannathh/Scentify-Project/internal/repository"
)

// CartStore holds one client's cart lines.
type CartStore struct {
	slotStore[[]domain.CartLine, domain.Cart]
	lines []domain.CartLine
}

func NewCartStore(slot *repository.Slot[[]domain.CartLine], logger *slog.Logger) *CartStore {
	s := &CartStore{}
	s.init(slot, logger)
	return s
}

// Init hydrates the cart from its slot. Later calls return the first result.
func (s *CartStore) Init(ctx context.Context) repository.LoadStatus {
	return s.hydrate(ctx, nil, func(lines []domain.CartLine) {
		s.lines = validLines(lines)
	})
}

// validLines drops lines a hand-edited or outdated slot may carry and merges
// duplicate (productId, size) lines.
func validLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.ProductID <= 0 || l.Size == "" {
			continue
		}
		out = append(out, l)
	}
	return domain.MergeLines(out)
}

// AddItem merges line into the cart: an existing (productId, size) line gains
// the quantity, otherwise the line is appended. Quantity is coerced to ≥1 and
// a line never exceeds domain.MaxQuantity.
func (s *CartStore) AddItem(ctx context.Context, line domain.CartLine) domain.Cart {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	line.Quantity = domain.ClampQuantity(line.Quantity)
	if i := domain.FindLine(s.lines, line.ProductID, line.Size); i >= 0 {
		s.lines[i].Quantity = domain.ClampQuantity(s.lines[i].Quantity + line.Quantity)
	} else {
		s.lines = append(s.lines, line)
	}
	return s.commit(ctx, "add")
}

// UpdateQuantity sets a line's quantity, clamping it into [1, MaxQuantity]. An
// unknown line is left alone.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID int, size string, quantity int) (domain.Cart, bool) {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	i := domain.FindLine(s.lines, productID, size)
	if i < 0 {
		return domain.NewCart(s.lines), false
	}
	s.lines[i].Quantity = domain.ClampQuantity(quantity)
	return s.commit(ctx, "update"), true
}

// RemoveItem deletes a line if present.
func (s *CartStore) RemoveItem(ctx context.Context, productID int, size string) (domain.Cart, bool) {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	i := domain.FindLine(s.lines, productID, size)
	if i < 0 {
		return domain.NewCart(s.lines), false
	}
	s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
	return s.commit(ctx, "remove"), true
}

// Deduct takes the given lines' quantities out of the cart, dropping lines
// that reach zero. Lines absent from the cart are skipped.
func (s *CartStore) Deduct(ctx context.Context, lines []domain.CartLine) domain.Cart {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range lines {
		i := domain.FindLine(s.lines, l.ProductID, l.Size)
		if i < 0 {
			continue
		}
		if s.lines[i].Quantity -= l.Quantity; s.lines[i].Quantity <= 0 {
			s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
		}
	}
	return s.commit(ctx, "deduct")
}

// Clear empties the cart.
func (s *CartStore) Clear(ctx context.Context) domain.Cart {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	return s.commit(ctx, "clear")
}

// commit persists, counts and broadcasts a mutation. The caller holds s.mu.
func (s *CartStore) commit(ctx context.Context, op string) domain.Cart {
	s.persist(ctx, append([]domain.CartLine{}, s.lines...))
	cartMutations.WithLabelValues(op).Inc()
	view := domain.NewCart(s.lines)
	s.observers.notify(view)
	return view
}

// Cart returns the current view with freshly computed totals.
func (s *CartStore) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewCart(s.lines)
}

func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ItemCount(s.lines)
}

func (s *CartStore) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Subtotal(s.lines)
}
