package service

import (
	"context"
	"log/slog"

	"github.com/jannathh/Scentify-Project/internal/domain"
	"github.com/jannathh/Scentify-Project/internal/repository"
)

// WishlistStore holds one client's saved products.
type WishlistStore struct {
	slotStore[[]domain.WishlistEntry, domain.Wishlist]
	entries []domain.WishlistEntry
}

func NewWishlistStore(slot *repository.Slot[[]domain.WishlistEntry], logger *slog.Logger) *WishlistStore {
	s := &WishlistStore{}
	s.init(slot, logger)
	return s
}

func (s *WishlistStore) Init(ctx context.Context) repository.LoadStatus {
	return s.hydrate(ctx, nil, func(entries []domain.WishlistEntry) {
		seen := make(map[int]bool, len(entries))
		for _, e := range entries {
			if e.ProductID > 0 && !seen[e.ProductID] {
				seen[e.ProductID] = true
				s.entries = append(s.entries, e)
			}
		}
	})
}

// Add saves entry unless its product is already present and reports whether it was added.
func (s *WishlistStore) Add(ctx context.Context, entry domain.WishlistEntry) bool {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(entry.ProductID) >= 0 {
		return false
	}
	s.entries = append(s.entries, entry)
	s.commit(ctx)
	return true
}

// Remove drops a product and reports whether it was present.
func (s *WishlistStore) Remove(ctx context.Context, productID int) bool {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return false
	}
	s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
	s.commit(ctx)
	return true
}

// Toggle removes the product if saved, otherwise adds it. It returns whether
// the product is saved afterwards.
func (s *WishlistStore) Toggle(ctx context.Context, entry domain.WishlistEntry) bool {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(entry.ProductID); i >= 0 {
		s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
		s.commit(ctx)
		return false
	}
	s.entries = append(s.entries, entry)
	s.commit(ctx)
	return true
}

func (s *WishlistStore) Clear(ctx context.Context) {
	s.Init(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.commit(ctx)
}

func (s *WishlistStore) Contains(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

func (s *WishlistStore) Wishlist() domain.Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewWishlist(s.entries)
}

func (s *WishlistStore) indexOf(productID int) int {
	for i, e := range s.entries {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *WishlistStore) commit(ctx context.Context) {
	s.persist(ctx, append([]domain.WishlistEntry{}, s.entries...))
	s.observers.notify(domain.NewWishlist(s.entries))
}
