// Package service holds the per-client storefront state: cart, wishlist and
// session stores, order history, checkout and the scent finder.
package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jannathh/Scentify-Project/internal/repository"
)

// observers is a set of callbacks receiving a store's derived view.
type observers[V any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(V)
}

func (o *observers[V]) subscribe(fn func(V)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fns == nil {
		o.fns = make(map[int]func(V))
	}
	id := o.next
	o.next++
	o.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.fns, id)
			o.mu.Unlock()
		})
	}
}

func (o *observers[V]) notify(v V) {
	o.mu.Lock()
	fns := make([]func(V), 0, len(o.fns))
	for _, fn := range o.fns {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// slotStore is the plumbing shared by the persisted stores: one-time hydration,
// the loading flag, observers and swallowed persistence errors. T is the slot
// document, V the view handed to observers.
type slotStore[T any, V any] struct {
	mu         sync.Mutex
	slot       *repository.Slot[T]
	loading    atomic.Bool
	initOnce   sync.Once
	loadStatus repository.LoadStatus
	persistErr error
	observers  observers[V]
	logger     *slog.Logger
}

func (s *slotStore[T, V]) init(slot *repository.Slot[T], logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	s.slot = slot
	s.logger = logger
	s.loading.Store(true)
}

// hydrate loads the slot once and hands the document to apply under the store lock.
func (s *slotStore[T, V]) hydrate(ctx context.Context, def T, apply func(T)) repository.LoadStatus {
	s.initOnce.Do(func() {
		v, status := s.slot.Load(ctx, def)

		s.mu.Lock()
		apply(v)
		s.loadStatus = status
		s.mu.Unlock()

		s.loading.Store(false)
		s.logger.DebugContext(ctx, "store hydrated",
			slog.String("slot", s.slot.Name()),
			slog.String("status", status.String()),
		)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadStatus
}

// IsLoading is true until the first hydration completes.
func (s *slotStore[T, V]) IsLoading() bool {
	return s.loading.Load()
}

// PersistErr returns the error of the latest save, nil if it succeeded.
func (s *slotStore[T, V]) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// Subscribe registers fn to receive the view after every mutation. fn runs
// with the store locked and must not call back into the store.
func (s *slotStore[T, V]) Subscribe(fn func(V)) func() {
	return s.observers.subscribe(fn)
}

// persist saves doc and records the outcome. The caller holds s.mu.
func (s *slotStore[T, V]) persist(ctx context.Context, doc T) {
	s.persistErr = s.slot.Save(ctx, doc)
	if s.persistErr != nil {
		s.logger.WarnContext(ctx, "slot save failed, continuing in memory",
			slog.String("slot", s.slot.Name()),
			slog.String("error", s.persistErr.Error()),
		)
	}
}
