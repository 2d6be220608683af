package store

import (
	"context"

	"github.com/phrazzld/hbnb-api/internal/domain"
)

// PlaceStore defines the interface for place data persistence.
type PlaceStore interface {
	// Create saves a new place together with its amenity links.
	Create(ctx context.Context, place *domain.Place) error

	// GetByID retrieves a place by ID.
	// Returns ErrPlaceNotFound if the place does not exist.
	GetByID(ctx context.Context, id string) (*domain.Place, error)

	// List returns all places in creation order.
	List(ctx context.Context) ([]*domain.Place, error)

	// Update replaces the stored place, including its amenity links.
	// Returns ErrPlaceNotFound if the place does not exist.
	Update(ctx context.Context, place *domain.Place) error

	// Delete removes a place by ID.
	// Returns ErrPlaceNotFound if the place does not exist.
	Delete(ctx context.Context, id string) error
}
