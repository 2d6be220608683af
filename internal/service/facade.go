package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/platform/logger"
	"github.com/phrazzld/hbnb-api/internal/service/auth"
	"github.com/phrazzld/hbnb-api/internal/store"
)

// Facade is the single entry point to the HBnB use cases.
//
// Entities are returned as copies; mutating them has no effect on stored
// state. Not-found errors match the store sentinels (store.ErrUserNotFound
// and friends), validation errors match domain.ErrValidation.
type Facade interface {
	// CreateUser validates and stores a new user. The password is hashed
	// before it is stored. Returns store.ErrEmailExists if the email is taken.
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	// UpdateUser applies the patch atomically. A changed email is checked for
	// uniqueness and a new password is hashed.
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	// Authenticate returns the user with the email when the password matches.
	// Returns ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	CreateAmenity(ctx context.Context, in CreateAmenityInput) (*domain.Amenity, error)
	GetAmenity(ctx context.Context, id string) (*domain.Amenity, error)
	GetAllAmenities(ctx context.Context) ([]*domain.Amenity, error)
	UpdateAmenity(ctx context.Context, id string, patch domain.AmenityPatch) (*domain.Amenity, error)

	// CreatePlace resolves the owner and amenities, then stores the place and
	// links it to all of them. Unresolvable IDs yield ErrReferenceNotFound.
	CreatePlace(ctx context.Context, in CreatePlaceInput) (*domain.Place, error)
	GetPlace(ctx context.Context, id string) (*domain.Place, error)
	// GetPlaceDetails returns the place with its owner, amenities, reviews and
	// average rating.
	GetPlaceDetails(ctx context.Context, id string) (*PlaceDetails, error)
	GetAllPlaces(ctx context.Context) ([]*domain.Place, error)
	// UpdatePlace applies scalar changes and, when given, moves the place to a
	// new owner and replaces its amenity list.
	UpdatePlace(ctx context.Context, id string, in UpdatePlaceInput) (*domain.Place, error)

	// CreateReview resolves the author and place and enforces that owners
	// cannot review their own place and that a user reviews a place at most
	// once.
	CreateReview(ctx context.Context, in CreateReviewInput) (*domain.Review, error)
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	GetAllReviews(ctx context.Context) ([]*domain.Review, error)
	// GetReviewsByPlace returns store.ErrPlaceNotFound for an unknown place.
	GetReviewsByPlace(ctx context.Context, placeID string) ([]*domain.Review, error)
	UpdateReview(ctx context.Context, id string, patch domain.ReviewPatch) (*domain.Review, error)
	// DeleteReview removes the review and its back-references on the author
	// and the place.
	DeleteReview(ctx context.Context, id string) error
}

// CreateUserInput holds the fields of a new user.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	IsAdmin   bool
}

// CreateAmenityInput holds the fields of a new amenity.
type CreateAmenityInput struct {
	Name        string
	Description string
}

// CreatePlaceInput holds the fields of a new place.
type CreatePlaceInput struct {
	Title       string
	Description string
	Price       float64
	Latitude    float64
	Longitude   float64
	OwnerID     string
	AmenityIDs  []string
}

// UpdatePlaceInput holds a partial place update. Nil fields are left alone;
// a non-nil AmenityIDs replaces the whole amenity list.
type UpdatePlaceInput struct {
	domain.PlacePatch
	OwnerID    *string
	AmenityIDs *[]string
}

// CreateReviewInput holds the fields of a new review.
type CreateReviewInput struct {
	Rating  int
	Text    string
	UserID  string
	PlaceID string
}

// PlaceDetails is a place with its related entities resolved.
type PlaceDetails struct {
	Place         *domain.Place
	Owner         *domain.User
	Amenities     []*domain.Amenity
	Reviews       []*domain.Review
	AverageRating float64
}

// hbnbFacade implements Facade on top of a store.Backend.
type hbnbFacade struct {
	backend store.Backend
	hasher  auth.PasswordHasher
	logger  *slog.Logger

	// dummyHash is compared against when a login email is unknown, so both
	// outcomes cost one hash comparison.
	dummyHash string
}

var _ Facade = (*hbnbFacade)(nil)

// NewFacade creates a Facade. It returns an error if any dependency is nil.
func NewFacade(backend store.Backend, hasher auth.PasswordHasher, logger *slog.Logger) (Facade, error) {
	if backend == nil {
		return nil, domain.NewValidationError("backend", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummyHash, err := hasher.Hash("hbnb-unknown-user")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}

	return &hbnbFacade{
		backend:   backend,
		hasher:    hasher,
		logger:    logger.With("component", "hbnb_facade"),
		dummyHash: dummyHash,
	}, nil
}

// stores returns the non-transactional stores used for reads.
func (f *hbnbFacade) stores() store.Stores {
	return f.backend.Stores()
}

func (f *hbnbFacade) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, f.logger)
}

// expected reports whether err is a caller error that maps to a 4xx status.
func expected(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, store.ErrDuplicate) ||
		errors.Is(err, store.ErrInvalidEntity) ||
		errors.Is(err, ErrReferenceNotFound) ||
		errors.Is(err, ErrBusinessRuleViolation) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrNotOwned)
}

// fail logs err and returns it. Unexpected errors are logged at error level
// and wrapped in a ServiceError; expected ones pass through unchanged.
func (f *hbnbFacade) fail(ctx context.Context, op string, err error, attrs ...any) error {
	log := f.log(ctx)
	if expected(err) {
		log.Debug(op+" rejected", append([]any{"error", err}, attrs...)...)
		return err
	}
	log.Error("failed to "+op, append([]any{"error", err}, attrs...)...)
	return NewServiceError(op, "store operation failed", err)
}

// resolveUser loads a referenced user; a missing user becomes a ReferenceError.
func resolveUser(ctx context.Context, s store.Stores, field, id string) (*domain.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, referenceError(field, id, err)
	}
	return u, err
}

// resolvePlace loads a referenced place; a missing place becomes a ReferenceError.
func resolvePlace(ctx context.Context, s store.Stores, field, id string) (*domain.Place, error) {
	p, err := s.Places.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, referenceError(field, id, err)
	}
	return p, err
}

// resolveAmenities loads every referenced amenity in order, skipping
// duplicate IDs.
func resolveAmenities(ctx context.Context, s store.Stores, ids []string) ([]*domain.Amenity, error) {
	seen := make(map[string]bool, len(ids))
	amenities := make([]*domain.Amenity, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		a, err := s.Amenities.GetByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil, referenceError("amenity_ids", id, err)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load amenity %s: %w", id, err)
		}
		amenities = append(amenities, a)
	}
	return amenities, nil
}
