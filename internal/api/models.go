package api

import (
	"time"

	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/service"
)

// Request payloads. Tags reject obviously malformed input early; the domain
// still validates every field.

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateUserRequest defines the payload for POST /users.
type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name"  validate:"required,max=50"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	IsAdmin   bool   `json:"is_admin"`
}

// UpdateUserRequest defines the payload for PUT /users/{id}. Absent fields
// are left unchanged.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitnil,max=50"`
	LastName  *string `json:"last_name"  validate:"omitnil,max=50"`
	Email     *string `json:"email"      validate:"omitnil,email"`
	Password  *string `json:"password"   validate:"omitnil,min=8,max=72"`
	IsAdmin   *bool   `json:"is_admin"`
}

func (req UpdateUserRequest) patch() domain.UserPatch {
	return domain.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		IsAdmin:   req.IsAdmin,
	}
}

// CreateAmenityRequest defines the payload for POST /amenities.
type CreateAmenityRequest struct {
	Name        string `json:"name"        validate:"required,max=50"`
	Description string `json:"description" validate:"max=200"`
}

// UpdateAmenityRequest defines the payload for PUT /amenities/{id}.
type UpdateAmenityRequest struct {
	Name        *string `json:"name"        validate:"omitnil,max=50"`
	Description *string `json:"description" validate:"omitnil,max=200"`
}

// CreatePlaceRequest defines the payload for POST /places. OwnerID defaults
// to the caller.
type CreatePlaceRequest struct {
	Title       string   `json:"title"       validate:"required,max=100"`
	Description string   `json:"description" validate:"max=1000"`
	Price       *float64 `json:"price"       validate:"required"`
	Latitude    *float64 `json:"latitude"    validate:"required"`
	Longitude   *float64 `json:"longitude"   validate:"required"`
	OwnerID     string   `json:"owner_id"`
	AmenityIDs  []string `json:"amenity_ids" validate:"dive,required"`
}

// UpdatePlaceRequest defines the payload for PUT /places/{id}. A present
// amenity_ids replaces the whole list.
type UpdatePlaceRequest struct {
	Title       *string   `json:"title"       validate:"omitnil,max=100"`
	Description *string   `json:"description" validate:"omitnil,max=1000"`
	Price       *float64  `json:"price"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	OwnerID     *string   `json:"owner_id"    validate:"omitnil,min=1"`
	AmenityIDs  *[]string `json:"amenity_ids" validate:"omitnil,dive,required"`
}

func (req UpdatePlaceRequest) input() service.UpdatePlaceInput {
	return service.UpdatePlaceInput{
		PlacePatch: domain.PlacePatch{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
		},
		OwnerID:    req.OwnerID,
		AmenityIDs: req.AmenityIDs,
	}
}

// CreateReviewRequest defines the payload for POST /reviews. UserID defaults
// to the caller.
type CreateReviewRequest struct {
	Text    string `json:"text"     validate:"required,max=500"`
	Rating  int    `json:"rating"   validate:"required,gte=1,lte=5"`
	PlaceID string `json:"place_id" validate:"required"`
	UserID  string `json:"user_id"`
}

// UpdateReviewRequest defines the payload for PUT /reviews/{id}.
type UpdateReviewRequest struct {
	Text   *string `json:"text"   validate:"omitnil,min=1,max=500"`
	Rating *int    `json:"rating" validate:"omitnil,gte=1,lte=5"`
}

// Responses

// AuthResponse defines the successful response for the login and refresh
// endpoints.
type AuthResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// ExpiresAt is the RFC 3339 time the access token expires
	ExpiresAt string `json:"expires_at"`
}

// UserResponse is the public representation of a user. It never includes
// the password hash.
type UserResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AmenityResponse is the public representation of an amenity.
type AmenityResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaceResponse is the public representation of a place.
type PlaceResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	OwnerID     string    `json:"owner_id"`
	AmenityIDs  []string  `json:"amenity_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaceSummaryResponse is a place as listed by GET /places.
type PlaceSummaryResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OwnerResponse is the owner embedded in place details.
type OwnerResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// AmenitySummaryResponse is an amenity embedded in place details.
type AmenitySummaryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlaceDetailsResponse is a place with its owner, amenities and reviews.
type PlaceDetailsResponse struct {
	PlaceResponse
	Owner         *OwnerResponse           `json:"owner"`
	Amenities     []AmenitySummaryResponse `json:"amenities"`
	Reviews       []ReviewResponse         `json:"reviews"`
	AverageRating float64                  `json:"average_rating"`
}

// ReviewResponse is the public representation of a review.
type ReviewResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	UserID    string    `json:"user_id"`
	PlaceID   string    `json:"place_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func amenityToResponse(a *domain.Amenity) AmenityResponse {
	return AmenityResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func placeToResponse(p *domain.Place) PlaceResponse {
	amenityIDs := p.AmenityIDs
	if amenityIDs == nil {
		amenityIDs = []string{}
	}
	return PlaceResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		OwnerID:     p.OwnerID,
		AmenityIDs:  amenityIDs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func placeToSummary(p *domain.Place) PlaceSummaryResponse {
	return PlaceSummaryResponse{
		ID:        p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
	}
}

func detailsToResponse(d *service.PlaceDetails) PlaceDetailsResponse {
	resp := PlaceDetailsResponse{
		PlaceResponse: placeToResponse(d.Place),
		Amenities:     make([]AmenitySummaryResponse, 0, len(d.Amenities)),
		Reviews:       make([]ReviewResponse, 0, len(d.Reviews)),
		AverageRating: d.AverageRating,
	}
	if d.Owner != nil {
		resp.Owner = &OwnerResponse{
			ID:        d.Owner.ID,
			FirstName: d.Owner.FirstName,
			LastName:  d.Owner.LastName,
			Email:     d.Owner.Email,
		}
	}
	for _, a := range d.Amenities {
		resp.Amenities = append(resp.Amenities, AmenitySummaryResponse{ID: a.ID, Name: a.Name})
	}
	for _, r := range d.Reviews {
		resp.Reviews = append(resp.Reviews, reviewToResponse(r))
	}
	return resp
}

func reviewToResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		Text:      r.Text,
		Rating:    r.Rating,
		UserID:    r.UserID,
		PlaceID:   r.PlaceID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// mapSlice converts each element of in with f.
func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
