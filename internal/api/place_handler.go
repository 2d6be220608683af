package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/hbnb-api/internal/api/shared"
	"github.com/phrazzld/hbnb-api/internal/platform/logger"
	"github.com/phrazzld/hbnb-api/internal/service"
)

// PlaceHandler handles place-related HTTP requests
type PlaceHandler struct {
	facade service.Facade
	logger *slog.Logger
}

// NewPlaceHandler creates a new PlaceHandler
func NewPlaceHandler(facade service.Facade, logger *slog.Logger) *PlaceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaceHandler{
		facade: facade,
		logger: logger.With(slog.String("component", "place_handler")),
	}
}

// CreatePlace handles POST /places. The caller owns the new place unless an
// admin names another owner.
func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	c, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req CreatePlaceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = c.ID
	}
	if !c.can(ownerID) {
		HandleAPIError(w, r, service.ErrNotOwned, "")
		return
	}

	place, err := h.facade.CreatePlace(r.Context(), service.CreatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		OwnerID:     ownerID,
		AmenityIDs:  req.AmenityIDs,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create place")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, placeToResponse(place))
}

// ListPlaces handles GET /places
func (h *PlaceHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.facade.GetAllPlaces(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list places")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, mapSlice(places, placeToSummary))
}

// GetPlace handles GET /places/{id}, returning the place with its owner,
// amenities, reviews and average rating.
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathIDOrError(w, r, "id")
	if !ok {
		return
	}

	details, err := h.facade.GetPlaceDetails(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get place")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, detailsToResponse(details))
}

// UpdatePlace handles PUT /places/{id}. Only the owner or an admin may
// update a place, and only an admin may hand it to another owner.
func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	c, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := pathIDOrError(w, r, "id")
	if !ok {
		return
	}

	var req UpdatePlaceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	current, err := h.facade.GetPlace(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update place")
		return
	}
	if !c.can(current.OwnerID) {
		HandleAPIError(w, r, service.ErrNotOwned, "")
		return
	}
	if req.OwnerID != nil && *req.OwnerID != current.OwnerID && !c.IsAdmin {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Debug("non-admin tried to transfer a place", slog.String("place_id", id))
		HandleAPIError(w, r, service.ErrNotOwned, "")
		return
	}

	place, err := h.facade.UpdatePlace(r.Context(), id, req.input())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update place")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, placeToResponse(place))
}

// ListPlaceReviews handles GET /places/{id}/reviews
func (h *PlaceHandler) ListPlaceReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathIDOrError(w, r, "id")
	if !ok {
		return
	}

	reviews, err := h.facade.GetReviewsByPlace(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list reviews")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, mapSlice(reviews, reviewToResponse))
}
