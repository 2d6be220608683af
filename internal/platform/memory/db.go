// Package memory provides an in-memory implementation of the store
// interfaces. Data does not survive a process restart.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/platform/logger"
	"github.com/phrazzld/hbnb-api/internal/store"
)

// DB holds one Repository per entity type and implements store.Backend.
//
// Writes are serialized: WithinTx holds an exclusive lock for the whole
// transaction, and the stores returned by Stores take a shared lock for each
// read. Readers therefore never observe a transaction that is later rolled
// back.
type DB struct {
	mu sync.RWMutex

	users     *Repository[*domain.User]
	amenities *Repository[*domain.Amenity]
	places    *Repository[*domain.Place]
	reviews   *Repository[*domain.Review]
}

var _ store.Backend = (*DB)(nil)

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		users:     NewRepository(func(u *domain.User) string { return u.ID }, (*domain.User).Clone),
		amenities: NewRepository(func(a *domain.Amenity) string { return a.ID }, (*domain.Amenity).Clone),
		places:    NewRepository(func(p *domain.Place) string { return p.ID }, (*domain.Place).Clone),
		reviews:   NewRepository(func(r *domain.Review) string { return r.ID }, (*domain.Review).Clone),
	}
}

// Stores returns stores that operate outside any transaction.
func (db *DB) Stores() store.Stores {
	return db.stores(sharedGuard{&db.mu})
}

// WithinTx runs fn with exclusive access to the database. If fn returns an
// error or panics, every repository is restored to its state before fn ran.
func (db *DB) WithinTx(ctx context.Context, fn store.StoresFn) error {
	log := logger.FromContext(ctx)

	db.mu.Lock()
	defer db.mu.Unlock()

	users, amenities := db.users.snapshot(), db.amenities.snapshot()
	places, reviews := db.places.snapshot(), db.reviews.snapshot()
	rollback := func() {
		db.users.restore(users)
		db.amenities.restore(amenities)
		db.places.restore(places)
		db.reviews.restore(reviews)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			log.Error("rolled back transaction after panic", slog.Any("panic", p))
			// ALLOW-PANIC: Propagating caught panic from transaction
			panic(p)
		}
	}()

	if err := fn(ctx, db.stores(noGuard{})); err != nil {
		rollback()
		log.Debug("rolled back transaction due to error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Close is a no-op.
func (db *DB) Close() error {
	return nil
}

func (db *DB) stores(g guard) store.Stores {
	return store.Stores{
		Users:     &userStore{db: db, guard: g},
		Amenities: &amenityStore{db: db, guard: g},
		Places:    &placeStore{db: db, guard: g},
		Reviews:   &reviewStore{db: db, guard: g},
	}
}

// guard is the locking discipline of a store: shared locks outside a
// transaction, nothing inside one (the transaction already holds the lock).
type guard interface {
	rlock() func()
	lock() func()
}

type sharedGuard struct{ mu *sync.RWMutex }

func (g sharedGuard) rlock() func() { g.mu.RLock(); return g.mu.RUnlock }
func (g sharedGuard) lock() func()  { g.mu.Lock(); return g.mu.Unlock }

type noGuard struct{}

func (noGuard) rlock() func() { return func() {} }
func (noGuard) lock() func()  { return func() {} }
