package store

import (
	"context"

	"github.com/phrazzld/hbnb-api/internal/domain"
)

// ReviewStore defines the interface for review data persistence.
type ReviewStore interface {
	// Create saves a new review.
	// Returns ErrReviewExists if the user already reviewed the place.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by ID.
	// Returns ErrReviewNotFound if the review does not exist.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// List returns all reviews in creation order.
	List(ctx context.Context) ([]*domain.Review, error)

	// ListByPlace returns the reviews of a place in creation order.
	ListByPlace(ctx context.Context, placeID string) ([]*domain.Review, error)

	// FindByUserAndPlace returns the review the user wrote for the place.
	// Returns ErrReviewNotFound if there is none.
	FindByUserAndPlace(ctx context.Context, userID, placeID string) (*domain.Review, error)

	// Update replaces the stored review.
	// Returns ErrReviewNotFound if the review does not exist.
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes a review by ID.
	// Returns ErrReviewNotFound if the review does not exist.
	Delete(ctx context.Context, id string) error
}
