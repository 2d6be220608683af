package memory

import (
	"context"
	"fmt"

	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/store"
)

func invalid(err error) error {
	return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
}

// validated is an entity the stores check before writing.
type validated[E any] interface {
	*E
	Validate() error
}

// update overwrites the stored entity with a copy of entity through
// Repository.Update, so the write only commits when entity is valid.
func update[E any, P validated[E]](r *Repository[P], entity P, notFound error) error {
	ok, err := r.Update(r.id(entity), func(stored P) error {
		if err := entity.Validate(); err != nil {
			return invalid(err)
		}
		*stored = *r.clone(entity)
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}

type userStore struct {
	db    *DB
	guard guard
}

var _ store.UserStore = (*userStore)(nil)

func (s *userStore) Create(ctx context.Context, user *domain.User) error {
	defer s.guard.lock()()

	if err := user.Validate(); err != nil {
		return invalid(err)
	}
	if s.emailTaken(user.Email, user.ID) {
		return store.ErrEmailExists
	}
	return s.db.users.Add(user)
}

func (s *userStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	defer s.guard.rlock()()

	user, ok := s.db.users.Get(id)
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	defer s.guard.rlock()()

	email = domain.NormalizeEmail(email)
	user, ok := s.db.users.GetByAttribute(func(u *domain.User) bool { return u.Email == email })
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *userStore) List(ctx context.Context) ([]*domain.User, error) {
	defer s.guard.rlock()()
	return s.db.users.GetAll(), nil
}

func (s *userStore) Update(ctx context.Context, user *domain.User) error {
	defer s.guard.lock()()

	if s.emailTaken(user.Email, user.ID) {
		return store.ErrEmailExists
	}
	return update(s.db.users, user, store.ErrUserNotFound)
}

func (s *userStore) Delete(ctx context.Context, id string) error {
	defer s.guard.lock()()

	if !s.db.users.Delete(id) {
		return store.ErrUserNotFound
	}
	return nil
}

// emailTaken reports whether a user other than exceptID has the email.
func (s *userStore) emailTaken(email, exceptID string) bool {
	email = domain.NormalizeEmail(email)
	_, taken := s.db.users.GetByAttribute(func(u *domain.User) bool {
		return u.Email == email && u.ID != exceptID
	})
	return taken
}

type amenityStore struct {
	db    *DB
	guard guard
}

var _ store.AmenityStore = (*amenityStore)(nil)

func (s *amenityStore) Create(ctx context.Context, amenity *domain.Amenity) error {
	defer s.guard.lock()()

	if err := amenity.Validate(); err != nil {
		return invalid(err)
	}
	return s.db.amenities.Add(amenity)
}

func (s *amenityStore) GetByID(ctx context.Context, id string) (*domain.Amenity, error) {
	defer s.guard.rlock()()

	amenity, ok := s.db.amenities.Get(id)
	if !ok {
		return nil, store.ErrAmenityNotFound
	}
	return amenity, nil
}

func (s *amenityStore) List(ctx context.Context) ([]*domain.Amenity, error) {
	defer s.guard.rlock()()
	return s.db.amenities.GetAll(), nil
}

func (s *amenityStore) Update(ctx context.Context, amenity *domain.Amenity) error {
	defer s.guard.lock()()

	return update(s.db.amenities, amenity, store.ErrAmenityNotFound)
}

func (s *amenityStore) Delete(ctx context.Context, id string) error {
	defer s.guard.lock()()

	if !s.db.amenities.Delete(id) {
		return store.ErrAmenityNotFound
	}
	return nil
}

type placeStore struct {
	db    *DB
	guard guard
}

var _ store.PlaceStore = (*placeStore)(nil)

func (s *placeStore) Create(ctx context.Context, place *domain.Place) error {
	defer s.guard.lock()()

	if err := place.Validate(); err != nil {
		return invalid(err)
	}
	return s.db.places.Add(place)
}

func (s *placeStore) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	defer s.guard.rlock()()

	place, ok := s.db.places.Get(id)
	if !ok {
		return nil, store.ErrPlaceNotFound
	}
	return place, nil
}

func (s *placeStore) List(ctx context.Context) ([]*domain.Place, error) {
	defer s.guard.rlock()()
	return s.db.places.GetAll(), nil
}

func (s *placeStore) Update(ctx context.Context, place *domain.Place) error {
	defer s.guard.lock()()

	return update(s.db.places, place, store.ErrPlaceNotFound)
}

func (s *placeStore) Delete(ctx context.Context, id string) error {
	defer s.guard.lock()()

	if !s.db.places.Delete(id) {
		return store.ErrPlaceNotFound
	}
	return nil
}

type reviewStore struct {
	db    *DB
	guard guard
}

var _ store.ReviewStore = (*reviewStore)(nil)

func (s *reviewStore) Create(ctx context.Context, review *domain.Review) error {
	defer s.guard.lock()()

	if err := review.Validate(); err != nil {
		return invalid(err)
	}
	// Mirrors the UNIQUE(user_id, place_id) constraint of the SQL schema.
	if _, exists := s.find(review.UserID, review.PlaceID); exists {
		return store.ErrReviewExists
	}
	return s.db.reviews.Add(review)
}

func (s *reviewStore) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	defer s.guard.rlock()()

	review, ok := s.db.reviews.Get(id)
	if !ok {
		return nil, store.ErrReviewNotFound
	}
	return review, nil
}

func (s *reviewStore) List(ctx context.Context) ([]*domain.Review, error) {
	defer s.guard.rlock()()
	return s.db.reviews.GetAll(), nil
}

func (s *reviewStore) ListByPlace(ctx context.Context, placeID string) ([]*domain.Review, error) {
	defer s.guard.rlock()()
	return s.db.reviews.Filter(func(r *domain.Review) bool { return r.PlaceID == placeID }), nil
}

func (s *reviewStore) FindByUserAndPlace(ctx context.Context, userID, placeID string) (*domain.Review, error) {
	defer s.guard.rlock()()

	review, ok := s.find(userID, placeID)
	if !ok {
		return nil, store.ErrReviewNotFound
	}
	return review, nil
}

func (s *reviewStore) Update(ctx context.Context, review *domain.Review) error {
	defer s.guard.lock()()

	return update(s.db.reviews, review, store.ErrReviewNotFound)
}

func (s *reviewStore) Delete(ctx context.Context, id string) error {
	defer s.guard.lock()()

	if !s.db.reviews.Delete(id) {
		return store.ErrReviewNotFound
	}
	return nil
}

// find is a linear scan over all reviews.
func (s *reviewStore) find(userID, placeID string) (*domain.Review, bool) {
	return s.db.reviews.GetByAttribute(func(r *domain.Review) bool {
		return r.UserID == userID && r.PlaceID == placeID
	})
}
