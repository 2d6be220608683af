package memory

import (
	"slices"
	"sync"

	"github.com/phrazzld/hbnb-api/internal/store"
)

// Repository is an in-memory keyed store for one entity type. Entities are
// copied on the way in and on the way out, so callers never share memory
// with the repository. It is safe for concurrent use.
type Repository[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string // insertion order, for stable listing

	id    func(T) string
	clone func(T) T
}

// NewRepository creates an empty repository. id extracts an entity's key and
// clone returns a deep copy of an entity.
func NewRepository[T any](id func(T) string, clone func(T) T) *Repository[T] {
	return &Repository[T]{
		items: make(map[string]T),
		id:    id,
		clone: clone,
	}
}

// Add inserts entity under its ID. It returns store.ErrDuplicate if an entity
// with the same ID is already stored.
func (r *Repository[T]) Add(entity T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.id(entity)
	if _, exists := r.items[id]; exists {
		return store.ErrDuplicate
	}
	r.items[id] = r.clone(entity)
	r.order = append(r.order, id)
	return nil
}

// Get returns a copy of the entity with the given ID, or ok=false.
func (r *Repository[T]) Get(id string) (entity T, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.items[id]
	if !ok {
		return entity, false
	}
	return r.clone(stored), true
}

// GetAll returns copies of all entities in insertion order.
func (r *Repository[T]) GetAll() []T {
	return r.Filter(func(T) bool { return true })
}

// GetByAttribute returns the first entity, in insertion order, for which
// match returns true. It is a linear scan.
func (r *Repository[T]) GetByAttribute(match func(T) bool) (entity T, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if stored := r.items[id]; match(stored) {
			return r.clone(stored), true
		}
	}
	return entity, false
}

// Filter returns copies of all entities for which match returns true, in
// insertion order.
func (r *Repository[T]) Filter(match func(T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		if stored := r.items[id]; match(stored) {
			out = append(out, r.clone(stored))
		}
	}
	return out
}

// Update applies fn to a copy of the stored entity and stores the result if
// fn succeeds. It returns ok=false when the ID is absent. A failing fn leaves
// the stored entity unchanged.
func (r *Repository[T]) Update(id string, fn func(T) error) (ok bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[id]
	if !ok {
		return false, nil
	}
	next := r.clone(stored)
	if err := fn(next); err != nil {
		return true, err
	}
	r.items[id] = next
	return true, nil
}

// Delete removes the entity with the given ID and reports whether something
// was removed.
func (r *Repository[T]) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false
	}
	delete(r.items, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return true
}

// repoState is a point-in-time copy of a repository's contents.
type repoState[T any] struct {
	items map[string]T
	order []string
}

// snapshot copies the repository's contents so they can be restored later.
// Stored entities are never mutated in place, so copying the map is enough.
func (r *Repository[T]) snapshot() repoState[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make(map[string]T, len(r.items))
	for k, v := range r.items {
		items[k] = v
	}
	return repoState[T]{items: items, order: slices.Clone(r.order)}
}

// restore replaces the repository's contents with s.
func (r *Repository[T]) restore(s repoState[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = s.items
	r.order = s.order
}
