package store

import (
	"context"

	"github.com/phrazzld/hbnb-api/internal/domain"
)

// AmenityStore defines the interface for amenity data persistence.
type AmenityStore interface {
	// Create saves a new amenity.
	Create(ctx context.Context, amenity *domain.Amenity) error

	// GetByID retrieves an amenity by ID.
	// Returns ErrAmenityNotFound if the amenity does not exist.
	GetByID(ctx context.Context, id string) (*domain.Amenity, error)

	// List returns all amenities in creation order.
	List(ctx context.Context) ([]*domain.Amenity, error)

	// Update replaces the stored amenity with the given one.
	// Returns ErrAmenityNotFound if the amenity does not exist.
	Update(ctx context.Context, amenity *domain.Amenity) error

	// Delete removes an amenity by ID.
	// Returns ErrAmenityNotFound if the amenity does not exist.
	Delete(ctx context.Context, id string) error
}
