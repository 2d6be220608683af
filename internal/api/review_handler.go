package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/hbnb-api/internal/api/shared"
	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/service"
)

// ReviewHandler handles review-related HTTP requests
type ReviewHandler struct {
	facade service.Facade
	logger *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(facade service.Facade, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		facade: facade,
		logger: logger.With(slog.String("component", "review_handler")),
	}
}

// CreateReview handles POST /reviews. The caller is the author unless an
// admin names another user.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	c, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = c.ID
	}
	if !c.can(userID) {
		HandleAPIError(w, r, service.ErrNotOwned, "")
		return
	}

	review, err := h.facade.CreateReview(r.Context(), service.CreateReviewInput{
		Rating:  req.Rating,
		Text:    req.Text,
		UserID:  userID,
		PlaceID: req.PlaceID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create review")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, reviewToResponse(review))
}

// ListReviews handles GET /reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.facade.GetAllReviews(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list reviews")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, mapSlice(reviews, reviewToResponse))
}

// GetReview handles GET /reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathIDOrError(w, r, "id")
	if !ok {
		return
	}

	review, err := h.facade.GetReview(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get review")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, reviewToResponse(review))
}

// UpdateReview handles PUT /reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeAuthor(w, r, "Failed to update review")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	review, err := h.facade.UpdateReview(r.Context(), id, domain.ReviewPatch{
		Rating: req.Rating,
		Text:   req.Text,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update review")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, reviewToResponse(review))
}

// DeleteReview handles DELETE /reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizeAuthor(w, r, "Failed to delete review")
	if !ok {
		return
	}

	if err := h.facade.DeleteReview(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete review")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Review deleted successfully"})
}

// authorizeAuthor resolves the review named in the path and checks that the
// caller wrote it or is an admin. It writes the error response on failure.
func (h *ReviewHandler) authorizeAuthor(w http.ResponseWriter, r *http.Request, defaultMsg string) (string, bool) {
	c, ok := requireCaller(w, r)
	if !ok {
		return "", false
	}
	id, ok := pathIDOrError(w, r, "id")
	if !ok {
		return "", false
	}

	review, err := h.facade.GetReview(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, defaultMsg)
		return "", false
	}
	if !c.can(review.UserID) {
		HandleAPIError(w, r, service.ErrNotOwned, "")
		return "", false
	}
	return id, true
}
