// Package repository is the storefront's persistence adapter: per-client JSON
// slots over a pluggable key/value backend.
package repository

import (
	"context"
	"errors"
)

// Slot names.
const (
	SlotCart     = "cart"
	SlotWishlist = "wishlist"
	SlotSession  = "session"
	SlotOrders   = "orders"
)

var (
	// ErrSlotNotFound is returned by a Backend when the key has never been written.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrNoBackend is returned by Save on a slot without durable storage.
	ErrNoBackend = errors.New("no slot backend configured")
)

// Backend stores raw slot documents.
type Backend interface {
	// Get returns the stored bytes or ErrSlotNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value at key.
	Set(ctx context.Context, key string, data []byte) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}

// Key is the backend key of a client's slot.
func Key(clientID, slot string) string {
	return clientID + ":" + slot
}
