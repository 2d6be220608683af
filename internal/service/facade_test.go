package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/platform/memory"
	"github.com/phrazzld/hbnb-api/internal/service"
	"github.com/phrazzld/hbnb-api/internal/service/auth"
	"github.com/phrazzld/hbnb-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "password123"

func newTestFacade(t *testing.T, backend store.Backend) service.Facade {
	t.Helper()
	if backend == nil {
		backend = memory.New()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	f, err := service.NewFacade(backend, auth.NewBcryptHasher(bcrypt.MinCost), logger)
	require.NoError(t, err)
	return f
}

func createUser(t *testing.T, f service.Facade, email string) *domain.User {
	t.Helper()
	u, err := f.CreateUser(context.Background(), service.CreateUserInput{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  testPassword,
	})
	require.NoError(t, err)
	return u
}

func createPlace(t *testing.T, f service.Facade, ownerID string, amenityIDs ...string) *domain.Place {
	t.Helper()
	p, err := f.CreatePlace(context.Background(), service.CreatePlaceInput{
		Title:      "Loft",
		Price:      120,
		Latitude:   48.85,
		Longitude:  2.35,
		OwnerID:    ownerID,
		AmenityIDs: amenityIDs,
	})
	require.NoError(t, err)
	return p
}

func createAmenity(t *testing.T, f service.Facade, name string) *domain.Amenity {
	t.Helper()
	a, err := f.CreateAmenity(context.Background(), service.CreateAmenityInput{Name: name})
	require.NoError(t, err)
	return a
}

func ptr[T any](v T) *T { return &v }

func TestNewFacade(t *testing.T) {
	_, err := service.NewFacade(nil, auth.NewBcryptHasher(bcrypt.MinCost), nil)
	assert.Error(t, err)
	_, err = service.NewFacade(memory.New(), nil, nil)
	assert.Error(t, err)
	f, err := service.NewFacade(memory.New(), auth.NewBcryptHasher(bcrypt.MinCost), nil)
	require.NoError(t, err)
	assert.NotNil(t, f)
}

// TestFacadeScenario walks through the core cross-entity rules end to end.
func TestFacadeScenario(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t, nil)

	u1 := createUser(t, f, "a@example.com")

	_, err := f.CreateUser(ctx, service.CreateUserInput{
		FirstName: "Other", LastName: "User", Email: "A@Example.COM", Password: testPassword,
	})
	assert.ErrorIs(t, err, store.ErrEmailExists)

	_, err = f.CreatePlace(ctx, service.CreatePlaceInput{
		Title: "Ghost", Price: 10, OwnerID: "does-not-exist",
	})
	assert.ErrorIs(t, err, service.ErrReferenceNotFound)

	p := createPlace(t, f, u1.ID)
	u2 := createUser(t, f, "b@example.com")

	_, err = f.CreateReview(ctx, service.CreateReviewInput{Rating: 5, Text: "x", UserID: u1.ID, PlaceID: p.ID})
	assert.ErrorIs(t, err, service.ErrSelfReview)
	assert.ErrorIs(t, err, service.ErrBusinessRuleViolation)

	review, err := f.CreateReview(ctx, service.CreateReviewInput{Rating: 4, Text: "nice", UserID: u2.ID, PlaceID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, u2.ID, review.UserID)

	_, err = f.CreateReview(ctx, service.CreateReviewInput{Rating: 4, Text: "nice", UserID: u2.ID, PlaceID: p.ID})
	assert.ErrorIs(t, err, service.ErrDuplicateReview)
	assert.ErrorIs(t, err, service.ErrBusinessRuleViolation)

	reviews, err := f.GetAllReviews(ctx)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t, nil)

	t.Run("password is hashed", func(t *testing.T) {
		u := createUser(t, f, "hash@example.com")
		assert.Empty(t, u.Password)
		assert.NotEqual(t, testPassword, u.HashedPassword)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(testPassword)))
	})

	t.Run("validation errors propagate", func(t *testing.T) {
		_, err := f.CreateUser(ctx, service.CreateUserInput{
			FirstName: "", LastName: "User", Email: "v@example.com", Password: testPassword,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "first_name", verr.Field)
	})

	t.Run("get and list", func(t *testing.T) {
		u := createUser(t, f, "list@example.com")
		got, err := f.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Email, got.Email)

		_, err = f.GetUser(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		all, err := f.GetAllUsers(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 1)
	})

	t.Run("update", func(t *testing.T) {
		u := createUser(t, f, "update@example.com")
		createUser(t, f, "taken@example.com")

		updated, err := f.UpdateUser(ctx, u.ID, domain.UserPatch{FirstName: ptr("Jane")})
		require.NoError(t, err)
		assert.Equal(t, "Jane", updated.FirstName)

		_, err = f.UpdateUser(ctx, u.ID, domain.UserPatch{Email: ptr("TAKEN@example.com")})
		assert.ErrorIs(t, err, store.ErrEmailExists)

		// Re-submitting one's own email is fine
		_, err = f.UpdateUser(ctx, u.ID, domain.UserPatch{Email: ptr("update@example.com")})
		assert.NoError(t, err)

		_, err = f.UpdateUser(ctx, u.ID, domain.UserPatch{FirstName: ptr("Ok"), Email: ptr("not-an-email")})
		assert.ErrorIs(t, err, domain.ErrValidation)
		got, err := f.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane", got.FirstName, "failed patch must not be applied")

		_, err = f.UpdateUser(ctx, u.ID, domain.UserPatch{Password: ptr("new-password")})
		require.NoError(t, err)
		_, err = f.Authenticate(ctx, "update@example.com", "new-password")
		assert.NoError(t, err)

		_, err = f.UpdateUser(ctx, "missing", domain.UserPatch{})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("authenticate", func(t *testing.T) {
		u := createUser(t, f, "login@example.com")

		got, err := f.Authenticate(ctx, "LOGIN@example.com", testPassword)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		_, err = f.Authenticate(ctx, "login@example.com", "wrong-password")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)

		_, err = f.Authenticate(ctx, "nobody@example.com", testPassword)
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

type mockHasher struct {
	mock.Mock
}

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockHasher) Compare(hashedPassword, password string) error {
	return m.Called(hashedPassword, password).Error(0)
}

func TestAuthenticateUnknownEmailComparesHash(t *testing.T) {
	hasher := &mockHasher{}
	hasher.On("Hash", mock.Anything).Return("dummy-hash", nil).Once()
	hasher.On("Compare", "dummy-hash", testPassword).Return(bcrypt.ErrMismatchedHashAndPassword).Once()

	f, err := service.NewFacade(memory.New(), hasher, nil)
	require.NoError(t, err)

	_, err = f.Authenticate(context.Background(), "nobody@example.com", testPassword)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	hasher.AssertExpectations(t)
}

func TestNewFacadeHasherFailure(t *testing.T) {
	hasher := &mockHasher{}
	hasher.On("Hash", mock.Anything).Return("", errors.New("hash failed"))

	_, err := service.NewFacade(memory.New(), hasher, nil)
	assert.Error(t, err)
}

func TestAmenities(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t, nil)

	wifi := createAmenity(t, f, "Wi-Fi")

	_, err := f.CreateAmenity(ctx, service.CreateAmenityInput{Name: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)

	updated, err := f.UpdateAmenity(ctx, wifi.ID, domain.AmenityPatch{Name: ptr("Fast Wi-Fi")})
	require.NoError(t, err)
	assert.Equal(t, "Fast Wi-Fi", updated.Name)

	got, err := f.GetAmenity(ctx, wifi.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fast Wi-Fi", got.Name)

	_, err = f.GetAmenity(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrAmenityNotFound)
	_, err = f.UpdateAmenity(ctx, "missing", domain.AmenityPatch{})
	assert.ErrorIs(t, err, store.ErrAmenityNotFound)

	all, err := f.GetAllAmenities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPlaces(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t, nil)

	owner := createUser(t, f, "owner@example.com")
	wifi := createAmenity(t, f, "Wi-Fi")
	pool := createAmenity(t, f, "Pool")

	t.Run("create links owner and amenities", func(t *testing.T) {
		p := createPlace(t, f, owner.ID, wifi.ID, pool.ID, wifi.ID)
		assert.Equal(t, []string{wifi.ID, pool.ID}, p.AmenityIDs)

		gotOwner, err := f.GetUser(ctx, owner.ID)
		require.NoError(t, err)
		assert.Contains(t, gotOwner.PlaceIDs, p.ID)

		gotWifi, err := f.GetAmenity(ctx, wifi.ID)
		require.NoError(t, err)
		assert.Contains(t, gotWifi.PlaceIDs, p.ID)
	})

	t.Run("unknown amenity is a reference error", func(t *testing.T) {
		_, err := f.CreatePlace(ctx, service.CreatePlaceInput{
			Title: "Nope", Price: 10, OwnerID: owner.ID, AmenityIDs: []string{"missing"},
		})
		assert.ErrorIs(t, err, service.ErrReferenceNotFound)
		assert.ErrorIs(t, err, store.ErrAmenityNotFound)

		var refErr *service.ReferenceError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, "amenity_ids", refErr.Field)
	})

	t.Run("invalid fields are rejected", func(t *testing.T) {
		_, err := f.CreatePlace(ctx, service.CreatePlaceInput{Title: "Cheap", Price: 0, OwnerID: owner.ID})
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = f.CreatePlace(ctx, service.CreatePlaceInput{Title: "Far", Price: 10, Latitude: 91, OwnerID: owner.ID})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("update scalars", func(t *testing.T) {
		p := createPlace(t, f, owner.ID)
		updated, err := f.UpdatePlace(ctx, p.ID, service.UpdatePlaceInput{
			PlacePatch: domain.PlacePatch{Title: ptr("Renamed"), Price: ptr(99.999)},
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, 100.0, updated.Price)

		_, err = f.UpdatePlace(ctx, p.ID, service.UpdatePlaceInput{
			PlacePatch: domain.PlacePatch{Title: ptr("Partial"), Price: ptr(-1.0)},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		got, err := f.GetPlace(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
	})

	t.Run("update moves owner and replaces amenities", func(t *testing.T) {
		p := createPlace(t, f, owner.ID, wifi.ID)
		newOwner := createUser(t, f, "new-owner@example.com")

		updated, err := f.UpdatePlace(ctx, p.ID, service.UpdatePlaceInput{
			OwnerID:    ptr(newOwner.ID),
			AmenityIDs: ptr([]string{pool.ID}),
		})
		require.NoError(t, err)
		assert.Equal(t, newOwner.ID, updated.OwnerID)
		assert.Equal(t, []string{pool.ID}, updated.AmenityIDs)

		oldOwner, err := f.GetUser(ctx, owner.ID)
		require.NoError(t, err)
		assert.NotContains(t, oldOwner.PlaceIDs, p.ID)
		gotNewOwner, err := f.GetUser(ctx, newOwner.ID)
		require.NoError(t, err)
		assert.Contains(t, gotNewOwner.PlaceIDs, p.ID)

		gotWifi, err := f.GetAmenity(ctx, wifi.ID)
		require.NoError(t, err)
		assert.NotContains(t, gotWifi.PlaceIDs, p.ID)
		gotPool, err := f.GetAmenity(ctx, pool.ID)
		require.NoError(t, err)
		assert.Contains(t, gotPool.PlaceIDs, p.ID)

		_, err = f.UpdatePlace(ctx, p.ID, service.UpdatePlaceInput{OwnerID: ptr("missing")})
		assert.ErrorIs(t, err, service.ErrReferenceNotFound)
		_, err = f.UpdatePlace(ctx, "missing", service.UpdatePlaceInput{})
		assert.ErrorIs(t, err, store.ErrPlaceNotFound)
	})

	t.Run("details", func(t *testing.T) {
		p := createPlace(t, f, owner.ID, wifi.ID)
		r1 := createUser(t, f, "r1@example.com")
		r2 := createUser(t, f, "r2@example.com")

		details, err := f.GetPlaceDetails(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, details.AverageRating)
		assert.Empty(t, details.Reviews)

		_, err = f.CreateReview(ctx, service.CreateReviewInput{Rating: 5, Text: "great", UserID: r1.ID, PlaceID: p.ID})
		require.NoError(t, err)
		_, err = f.CreateReview(ctx, service.CreateReviewInput{Rating: 2, Text: "meh", UserID: r2.ID, PlaceID: p.ID})
		require.NoError(t, err)

		details, err = f.GetPlaceDetails(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, details.Place.ID)
		require.NotNil(t, details.Owner)
		assert.Equal(t, owner.ID, details.Owner.ID)
		require.Len(t, details.Amenities, 1)
		assert.Equal(t, wifi.ID, details.Amenities[0].ID)
		assert.Len(t, details.Reviews, 2)
		assert.Equal(t, 3.5, details.AverageRating)

		_, err = f.GetPlaceDetails(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrPlaceNotFound)
	})
}

func TestReviews(t *testing.T) {
	ctx := context.Background()
	f := newTestFacade(t, nil)

	owner := createUser(t, f, "owner@example.com")
	author := createUser(t, f, "author@example.com")
	p := createPlace(t, f, owner.ID)

	review, err := f.CreateReview(ctx, service.CreateReviewInput{Rating: 3, Text: "ok", UserID: author.ID, PlaceID: p.ID})
	require.NoError(t, err)

	t.Run("back-references are stored", func(t *testing.T) {
		gotAuthor, err := f.GetUser(ctx, author.ID)
		require.NoError(t, err)
		assert.Contains(t, gotAuthor.ReviewIDs, review.ID)
		gotPlace, err := f.GetPlace(ctx, p.ID)
		require.NoError(t, err)
		assert.Contains(t, gotPlace.ReviewIDs, review.ID)
	})

	t.Run("reference and validation errors", func(t *testing.T) {
		_, err := f.CreateReview(ctx, service.CreateReviewInput{Rating: 3, Text: "ok", UserID: "missing", PlaceID: p.ID})
		assert.ErrorIs(t, err, service.ErrReferenceNotFound)
		_, err = f.CreateReview(ctx, service.CreateReviewInput{Rating: 3, Text: "ok", UserID: author.ID, PlaceID: "missing"})
		assert.ErrorIs(t, err, service.ErrReferenceNotFound)

		other := createUser(t, f, "other@example.com")
		_, err = f.CreateReview(ctx, service.CreateReviewInput{Rating: 6, Text: "ok", UserID: other.ID, PlaceID: p.ID})
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = f.CreateReview(ctx, service.CreateReviewInput{Rating: 3, Text: "", UserID: other.ID, PlaceID: p.ID})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("by place", func(t *testing.T) {
		byPlace, err := f.GetReviewsByPlace(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, byPlace, 1)
		assert.Equal(t, review.ID, byPlace[0].ID)

		_, err = f.GetReviewsByPlace(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrPlaceNotFound)
	})

	t.Run("update", func(t *testing.T) {
		updated, err := f.UpdateReview(ctx, review.ID, domain.ReviewPatch{Rating: ptr(5), Text: ptr("better")})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Rating)
		assert.Equal(t, "better", updated.Text)

		_, err = f.UpdateReview(ctx, review.ID, domain.ReviewPatch{Rating: ptr(0)})
		assert.ErrorIs(t, err, domain.ErrValidation)
		got, err := f.GetReview(ctx, review.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Rating)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, f.DeleteReview(ctx, review.ID))

		_, err := f.GetReview(ctx, review.ID)
		assert.ErrorIs(t, err, store.ErrReviewNotFound)
		assert.ErrorIs(t, f.DeleteReview(ctx, review.ID), store.ErrReviewNotFound)

		gotAuthor, err := f.GetUser(ctx, author.ID)
		require.NoError(t, err)
		assert.NotContains(t, gotAuthor.ReviewIDs, review.ID)
		gotPlace, err := f.GetPlace(ctx, p.ID)
		require.NoError(t, err)
		assert.NotContains(t, gotPlace.ReviewIDs, review.ID)

		// The pair may be reviewed again once the old review is gone
		_, err = f.CreateReview(ctx, service.CreateReviewInput{Rating: 4, Text: "again", UserID: author.ID, PlaceID: p.ID})
		assert.NoError(t, err)
	})
}

// failingBackend wraps the memory backend and makes amenity updates fail
// inside transactions.
type failingBackend struct {
	*memory.DB
	err error
}

type failingAmenities struct {
	store.AmenityStore
	err error
}

func (a failingAmenities) Update(context.Context, *domain.Amenity) error { return a.err }

func (b *failingBackend) WithinTx(ctx context.Context, fn store.StoresFn) error {
	return b.DB.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		s.Amenities = failingAmenities{AmenityStore: s.Amenities, err: b.err}
		return fn(ctx, s)
	})
}

func TestFailedOperationLeavesStoresUnchanged(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	failure := errors.New("disk on fire")

	setup := newTestFacade(t, db)
	owner := createUser(t, setup, "owner@example.com")
	wifi := createAmenity(t, setup, "Wi-Fi")

	f := newTestFacade(t, &failingBackend{DB: db, err: failure})
	_, err := f.CreatePlace(ctx, service.CreatePlaceInput{
		Title: "Loft", Price: 10, OwnerID: owner.ID, AmenityIDs: []string{wifi.ID},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)

	var serr *service.ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "create place", serr.Operation)

	places, err := f.GetAllPlaces(ctx)
	require.NoError(t, err)
	assert.Empty(t, places)

	gotOwner, err := f.GetUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, gotOwner.PlaceIDs)
}
