package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/store"
)

// idList returns the text form of col for the rows of table matching where,
// in insertion order.
func idList(ctx context.Context, b Builder, table, col string, where goqu.Ex) ([]string, error) {
	var ids []string
	err := b.From(table).
		Select(goqu.Cast(goqu.C(col), "TEXT")).
		Where(where).
		Order(goqu.C("seq").Asc()).
		ScanValsContext(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("could not list %s.%s: %w", table, col, err)
	}
	return ids, nil
}

type userStore struct {
	b Builder
}

var _ store.UserStore = (*userStore)(nil)

func (s *userStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return invalid(err)
	}
	var row pgUser
	if err := row.FromDomain(user); err != nil {
		return err
	}

	if _, err := s.b.Insert(usersTable).Rows(row).Executor().ExecContext(ctx); err != nil {
		return MapError(err, store.ErrUserNotFound)
	}
	return nil
}

func (s *userStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := parseID(id, store.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, goqu.Ex{"id": uid})
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row pgUser
	found, err := s.b.From(usersTable).
		Where(goqu.Func("lower", goqu.C("email")).Eq(domain.NormalizeEmail(email))).
		ScanStructContext(ctx, &row)
	if err != nil {
		return nil, MapError(err, store.ErrUserNotFound)
	}
	if !found {
		return nil, store.ErrUserNotFound
	}
	return s.load(ctx, &row)
}

func (s *userStore) List(ctx context.Context) ([]*domain.User, error) {
	var rows []pgUser
	if err := s.b.From(usersTable).Order(goqu.C("seq").Asc()).ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not list users: %w", err)
	}

	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		u, err := s.load(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *userStore) Update(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return invalid(err)
	}
	uid, err := parseID(user.ID, store.ErrUserNotFound)
	if err != nil {
		return err
	}

	result, err := s.b.Update(usersTable).
		Set(goqu.Record{
			"first_name":    user.FirstName,
			"last_name":     user.LastName,
			"email":         user.Email,
			"password_hash": user.HashedPassword,
			"is_admin":      user.IsAdmin,
			"updated_at":    user.UpdatedAt,
		}).
		Where(goqu.Ex{"id": uid}).
		Executor().ExecContext(ctx)
	if err != nil {
		return MapError(err, store.ErrUserNotFound)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

func (s *userStore) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id, store.ErrUserNotFound)
	if err != nil {
		return err
	}
	result, err := s.b.Delete(usersTable).Where(goqu.Ex{"id": uid}).Executor().ExecContext(ctx)
	if err != nil {
		return MapError(err, store.ErrUserNotFound)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

func (s *userStore) get(ctx context.Context, where goqu.Ex) (*domain.User, error) {
	var row pgUser
	found, err := s.b.From(usersTable).Where(where).ScanStructContext(ctx, &row)
	if err != nil {
		return nil, MapError(err, store.ErrUserNotFound)
	}
	if !found {
		return nil, store.ErrUserNotFound
	}
	return s.load(ctx, &row)
}

// load converts row and fills in the places and reviews of the user.
func (s *userStore) load(ctx context.Context, row *pgUser) (*domain.User, error) {
	u := row.ToDomain()
	var err error
	if u.PlaceIDs, err = idList(ctx, s.b, placesTable, "id", goqu.Ex{"owner_id": row.ID}); err != nil {
		return nil, err
	}
	if u.ReviewIDs, err = idList(ctx, s.b, reviewsTable, "id", goqu.Ex{"user_id": row.ID}); err != nil {
		return nil, err
	}
	return u, nil
}

type amenityStore struct {
	b Builder
}

var _ store.AmenityStore = (*amenityStore)(nil)

func (s *amenityStore) Create(ctx context.Context, amenity *domain.Amenity) error {
	if err := amenity.Validate(); err != nil {
		return invalid(err)
	}
	var row pgAmenity
	if err := row.FromDomain(amenity); err != nil {
		return err
	}

	if _, err := s.b.Insert(amenitiesTable).Rows(row).Executor().ExecContext(ctx); err != nil {
		return MapError(err, store.ErrAmenityNotFound)
	}
	return nil
}

func (s *amenityStore) GetByID(ctx context.Context, id string) (*domain.Amenity, error) {
	aid, err := parseID(id, store.ErrAmenityNotFound)
	if err != nil {
		return nil, err
	}

	var row pgAmenity
	found, err := s.b.From(amenitiesTable).Where(goqu.Ex{"id": aid}).ScanStructContext(ctx, &row)
	if err != nil {
		return nil, MapError(err, store.ErrAmenityNotFound)
	}
	if !found {
		return nil, store.ErrAmenityNotFound
	}
	return s.load(ctx, &row)
}

func (s *amenityStore) List(ctx context.Context) ([]*domain.Amenity, error) {
	var rows []pgAmenity
	if err := s.b.From(amenitiesTable).Order(goqu.C("seq").Asc()).ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not list amenities: %w", err)
	}

	amenities := make([]*domain.Amenity, 0, len(rows))
	for i := range rows {
		a, err := s.load(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		amenities = append(amenities, a)
	}
	return amenities, nil
}

// Update writes the amenity's own columns. Its place links are owned by the
// places side of the join table and are left alone.
func (s *amenityStore) Update(ctx context.Context, amenity *domain.Amenity) error {
	if err := amenity.Validate(); err != nil {
		return invalid(err)
	}
	aid, err := parseID(amenity.ID, store.ErrAmenityNotFound)
	if err != nil {
		return err
	}

	result, err := s.b.Update(amenitiesTable).
		Set(goqu.Record{
			"name":        amenity.Name,
			"description": amenity.Description,
			"updated_at":  amenity.UpdatedAt,
		}).
		Where(goqu.Ex{"id": aid}).
		Executor().ExecContext(ctx)
	if err != nil {
		return MapError(err, store.ErrAmenityNotFound)
	}
	return CheckRowsAffected(result, store.ErrAmenityNotFound)
}

func (s *amenityStore) Delete(ctx context.Context, id string) error {
	aid, err := parseID(id, store.ErrAmenityNotFound)
	if err != nil {
		return err
	}
	result, err := s.b.Delete(amenitiesTable).Where(goqu.Ex{"id": aid}).Executor().ExecContext(ctx)
	if err != nil {
		return MapError(err, store.ErrAmenityNotFound)
	}
	return CheckRowsAffected(result, store.ErrAmenityNotFound)
}

func (s *amenityStore) load(ctx context.Context, row *pgAmenity) (*domain.Amenity, error) {
	a := row.ToDomain()
	var err error
	if a.PlaceIDs, err = idList(ctx, s.b, placeAmenitiesTable, "place_id", goqu.Ex{"amenity_id": row.ID}); err != nil {
		return nil, err
	}
	return a, nil
}

type placeStore struct {
	b Builder
}

var _ store.PlaceStore = (*placeStore)(nil)

func (s *placeStore) Create(ctx context.Context, place *domain.Place) error {
	if err := place.Validate(); err != nil {
		return invalid(err)
	}
	var row pgPlace
	if err := row.FromDomain(place); err != nil {
		return err
	}

	if _, err := s.b.Insert(placesTable).Rows(row).Executor().ExecContext(ctx); err != nil {
		return MapError(err, store.ErrPlaceNotFound)
	}
	return s.linkAmenities(ctx, row.ID, place.AmenityIDs)
}

func (s *placeStore) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	pid, err := parseID(id, store.ErrPlaceNotFound)
	if err != nil {
		return nil, err
	}

	var row pgPlace
	found, err := s.b.From(placesTable).Where(goqu.Ex{"id": pid}).ScanStructContext(ctx, &row)
	if err != nil {
		return nil, MapError(err, store.ErrPlaceNotFound)
	}
	if !found {
		return nil, store.ErrPlaceNotFound
	}
	return s.load(ctx, &row)
}

func (s *placeStore) List(ctx context.Context) ([]*domain.Place, error) {
	var rows []pgPlace
	if err := s.b.From(placesTable).Order(goqu.C("seq").Asc()).ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not list places: %w", err)
	}

	places := make([]*domain.Place, 0, len(rows))
	for i := range rows {
		p, err := s.load(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, nil
}

// Update writes the place's columns and makes the join table match
// place.AmenityIDs.
func (s *placeStore) Update(ctx context.Context, place *domain.Place) error {
	if err := place.Validate(); err != nil {
		return invalid(err)
	}
	var row pgPlace
	if err := row.FromDomain(place); err != nil {
		return err
	}

	result, err := s.b.Update(placesTable).
		Set(goqu.Record{
			"title":       row.Title,
			"description": row.Description,
			"price":       row.Price,
			"latitude":    row.Latitude,
			"longitude":   row.Longitude,
			"owner_id":    row.OwnerID,
			"updated_at":  row.UpdatedAt,
		}).
		Where(goqu.Ex{"id": row.ID}).
		Executor().ExecContext(ctx)
	if err != nil {
		return MapError(err, store.ErrPlaceNotFound)
	}
	if err := CheckRowsAffected(result, store.ErrPlaceNotFound); err != nil {
		return err
	}

	if _, err := parseIDs("amenity", place.AmenityIDs); err != nil {
		return err
	}
	unlink := s.b.Delete(placeAmenitiesTable).Where(goqu.Ex{"place_id": row.ID})
	if len(place.AmenityIDs) > 0 {
		unlink = unlink.Where(goqu.C("amenity_id").NotIn(place.AmenityIDs))
	}
	if _, err := unlink.Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not unlink amenities: %w", err)
	}
	return s.linkAmenities(ctx, row.ID, place.AmenityIDs)
}

func (s *placeStore) Delete(ctx context.Context, id string) error {
	pid, err := parseID(id, store.ErrPlaceNotFound)
	if err != nil {
		return err
	}
	result, err := s.b.Delete(placesTable).Where(goqu.Ex{"id": pid}).Executor().ExecContext(ctx)
	if err != nil {
		return MapError(err, store.ErrPlaceNotFound)
	}
	return CheckRowsAffected(result, store.ErrPlaceNotFound)
}

// linkAmenities adds the missing join rows, keeping the order of ids.
func (s *placeStore) linkAmenities(ctx context.Context, placeID uuid.UUID, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	amenityIDs, err := parseIDs("amenity", ids)
	if err != nil {
		return err
	}

	rows := make([]interface{}, 0, len(amenityIDs))
	for _, amenityID := range amenityIDs {
		rows = append(rows, pgPlaceAmenity{PlaceID: placeID, AmenityID: amenityID})
	}
	_, err = s.b.Insert(placeAmenitiesTable).
		Rows(rows...).
		OnConflict(goqu.DoNothing()).
		Executor().ExecContext(ctx)
	if err != nil {
		return MapError(err, store.ErrAmenityNotFound)
	}
	return nil
}

func (s *placeStore) load(ctx context.Context, row *pgPlace) (*domain.Place, error) {
	p := row.ToDomain()
	var err error
	if p.AmenityIDs, err = idList(ctx, s.b, placeAmenitiesTable, "amenity_id", goqu.Ex{"place_id": row.ID}); err != nil {
		return nil, err
	}
	if p.ReviewIDs, err = idList(ctx, s.b, reviewsTable, "id", goqu.Ex{"place_id": row.ID}); err != nil {
		return nil, err
	}
	return p, nil
}

func parseIDs(entity string, ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, invalidID(entity, id)
		}
		out = append(out, parsed)
	}
	return out, nil
}

type reviewStore struct {
	b Builder
}

var _ store.ReviewStore = (*reviewStore)(nil)

func (s *reviewStore) Create(ctx context.Context, review *domain.Review) error {
	if err := review.Validate(); err != nil {
		return invalid(err)
	}
	var row pgReview
	if err := row.FromDomain(review); err != nil {
		return err
	}

	if _, err := s.b.Insert(reviewsTable).Rows(row).Executor().ExecContext(ctx); err != nil {
		return MapError(err, store.ErrReviewNotFound)
	}
	return nil
}

func (s *reviewStore) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	rid, err := parseID(id, store.ErrReviewNotFound)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, goqu.Ex{"id": rid})
}

func (s *reviewStore) List(ctx context.Context) ([]*domain.Review, error) {
	return s.list(ctx, goqu.Ex{})
}

func (s *reviewStore) ListByPlace(ctx context.Context, placeID string) ([]*domain.Review, error) {
	pid, err := uuid.Parse(placeID)
	if err != nil {
		return []*domain.Review{}, nil
	}
	return s.list(ctx, goqu.Ex{"place_id": pid})
}

func (s *reviewStore) FindByUserAndPlace(ctx context.Context, userID, placeID string) (*domain.Review, error) {
	uid, err := parseID(userID, store.ErrReviewNotFound)
	if err != nil {
		return nil, err
	}
	pid, err := parseID(placeID, store.ErrReviewNotFound)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, goqu.Ex{"user_id": uid, "place_id": pid})
}

func (s *reviewStore) Update(ctx context.Context, review *domain.Review) error {
	if err := review.Validate(); err != nil {
		return invalid(err)
	}
	rid, err := parseID(review.ID, store.ErrReviewNotFound)
	if err != nil {
		return err
	}

	result, err := s.b.Update(reviewsTable).
		Set(goqu.Record{
			"rating":     review.Rating,
			"text":       review.Text,
			"updated_at": review.UpdatedAt,
		}).
		Where(goqu.Ex{"id": rid}).
		Executor().ExecContext(ctx)
	if err != nil {
		return MapError(err, store.ErrReviewNotFound)
	}
	return CheckRowsAffected(result, store.ErrReviewNotFound)
}

func (s *reviewStore) Delete(ctx context.Context, id string) error {
	rid, err := parseID(id, store.ErrReviewNotFound)
	if err != nil {
		return err
	}
	result, err := s.b.Delete(reviewsTable).Where(goqu.Ex{"id": rid}).Executor().ExecContext(ctx)
	if err != nil {
		return MapError(err, store.ErrReviewNotFound)
	}
	return CheckRowsAffected(result, store.ErrReviewNotFound)
}

func (s *reviewStore) get(ctx context.Context, where goqu.Ex) (*domain.Review, error) {
	var row pgReview
	found, err := s.b.From(reviewsTable).Where(where).ScanStructContext(ctx, &row)
	if err != nil {
		return nil, MapError(err, store.ErrReviewNotFound)
	}
	if !found {
		return nil, store.ErrReviewNotFound
	}
	return row.ToDomain(), nil
}

func (s *reviewStore) list(ctx context.Context, where goqu.Ex) ([]*domain.Review, error) {
	var rows []pgReview
	err := s.b.From(reviewsTable).Where(where).Order(goqu.C("seq").Asc()).ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("could not list reviews: %w", err)
	}

	reviews := make([]*domain.Review, 0, len(rows))
	for i := range rows {
		reviews = append(reviews, rows[i].ToDomain())
	}
	return reviews, nil
}
