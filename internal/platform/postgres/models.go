package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/hbnb-api/internal/domain"
)

const (
	usersTable          = "users"
	amenitiesTable      = "amenities"
	placesTable         = "places"
	placeAmenitiesTable = "place_amenities"
	reviewsTable        = "reviews"
)

// Constraint names from the schema, used to map unique violations.
const (
	usersEmailKey       = "users_email_key"
	reviewsUserPlaceKey = "reviews_user_place_key"
)

type pgUser struct {
	ID           uuid.UUID `db:"id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (p *pgUser) ToDomain() *domain.User {
	return &domain.User{
		Base:           domain.RestoreBase(p.ID.String(), p.CreatedAt, p.UpdatedAt),
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		HashedPassword: p.PasswordHash,
		IsAdmin:        p.IsAdmin,
	}
}

func (p *pgUser) FromDomain(u *domain.User) error {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return invalidID("user", u.ID)
	}
	*p = pgUser{
		ID:           id,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.HashedPassword,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	return nil
}

type pgAmenity struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (p *pgAmenity) ToDomain() *domain.Amenity {
	return &domain.Amenity{
		Base:        domain.RestoreBase(p.ID.String(), p.CreatedAt, p.UpdatedAt),
		Name:        p.Name,
		Description: p.Description,
	}
}

func (p *pgAmenity) FromDomain(a *domain.Amenity) error {
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return invalidID("amenity", a.ID)
	}
	*p = pgAmenity{
		ID:          id,
		Name:        a.Name,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	return nil
}

type pgPlace struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	Latitude    float64   `db:"latitude"`
	Longitude   float64   `db:"longitude"`
	OwnerID     uuid.UUID `db:"owner_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (p *pgPlace) ToDomain() *domain.Place {
	return &domain.Place{
		Base:        domain.RestoreBase(p.ID.String(), p.CreatedAt, p.UpdatedAt),
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		OwnerID:     p.OwnerID.String(),
	}
}

func (p *pgPlace) FromDomain(pl *domain.Place) error {
	id, err := uuid.Parse(pl.ID)
	if err != nil {
		return invalidID("place", pl.ID)
	}
	ownerID, err := uuid.Parse(pl.OwnerID)
	if err != nil {
		return invalidID("owner", pl.OwnerID)
	}
	*p = pgPlace{
		ID:          id,
		Title:       pl.Title,
		Description: pl.Description,
		Price:       pl.Price,
		Latitude:    pl.Latitude,
		Longitude:   pl.Longitude,
		OwnerID:     ownerID,
		CreatedAt:   pl.CreatedAt,
		UpdatedAt:   pl.UpdatedAt,
	}
	return nil
}

type pgReview struct {
	ID        uuid.UUID `db:"id"`
	Rating    int       `db:"rating"`
	Text      string    `db:"text"`
	UserID    uuid.UUID `db:"user_id"`
	PlaceID   uuid.UUID `db:"place_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (p *pgReview) ToDomain() *domain.Review {
	return &domain.Review{
		Base:    domain.RestoreBase(p.ID.String(), p.CreatedAt, p.UpdatedAt),
		Rating:  p.Rating,
		Text:    p.Text,
		UserID:  p.UserID.String(),
		PlaceID: p.PlaceID.String(),
	}
}

func (p *pgReview) FromDomain(r *domain.Review) error {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return invalidID("review", r.ID)
	}
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return invalidID("user", r.UserID)
	}
	placeID, err := uuid.Parse(r.PlaceID)
	if err != nil {
		return invalidID("place", r.PlaceID)
	}
	*p = pgReview{
		ID:        id,
		Rating:    r.Rating,
		Text:      r.Text,
		UserID:    userID,
		PlaceID:   placeID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	return nil
}

type pgPlaceAmenity struct {
	PlaceID   uuid.UUID `db:"place_id"`
	AmenityID uuid.UUID `db:"amenity_id"`
}
