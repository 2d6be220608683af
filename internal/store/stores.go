package store

import "context"

// Stores groups the per-entity stores of one backend. Inside a transaction
// every store in the group shares the same transaction.
type Stores struct {
	Users     UserStore
	Amenities AmenityStore
	Places    PlaceStore
	Reviews   ReviewStore
}

// StoresFn is a function that executes within a transaction.
// The stores it receives are bound to that transaction.
type StoresFn func(ctx context.Context, s Stores) error

// Transactor runs a function against all stores atomically. If fn returns an
// error, none of its writes are visible afterwards.
type Transactor interface {
	WithinTx(ctx context.Context, fn StoresFn) error
}

// Backend is a complete storage backend: the non-transactional stores used
// for reads, and a Transactor for writes.
type Backend interface {
	Transactor

	// Stores returns stores that operate outside any transaction.
	Stores() Stores

	// Close releases the resources held by the backend.
	Close() error
}
