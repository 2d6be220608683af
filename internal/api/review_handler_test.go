package api_test

import (
	"net/http"
	"testing"

	"github.com/phrazzld/hbnb-api/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview(t *testing.T) {
	a := newTestAPI(t)
	owner, ownerToken := a.user("owner@example.com", false)
	guest, guestToken := a.user("guest@example.com", false)
	critic, _ := a.user("critic@example.com", false)
	_, adminToken := a.user("admin@example.com", true)
	place := a.place(owner.ID)

	t.Run("author defaults to caller", func(t *testing.T) {
		rr := a.do(http.MethodPost, "/reviews", guestToken, api.CreateReviewRequest{
			Text: "Great place", Rating: 5, PlaceID: place.ID,
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		review := decode[api.ReviewResponse](t, rr)
		assert.Equal(t, guest.ID, review.UserID)
		assert.Equal(t, place.ID, review.PlaceID)
	})

	tests := []struct {
		name    string
		token   string
		req     api.CreateReviewRequest
		status  int
		message string
	}{
		{
			name:    "second review of the same place",
			token:   guestToken,
			req:     api.CreateReviewRequest{Text: "Again", Rating: 4, PlaceID: place.ID},
			status:  http.StatusBadRequest,
			message: "You have already reviewed this place",
		},
		{
			name:    "owner reviews own place",
			token:   ownerToken,
			req:     api.CreateReviewRequest{Text: "Mine is best", Rating: 5, PlaceID: place.ID},
			status:  http.StatusBadRequest,
			message: "You cannot review your own place",
		},
		{
			name:    "unknown place",
			token:   guestToken,
			req:     api.CreateReviewRequest{Text: "Where?", Rating: 3, PlaceID: "ghost"},
			status:  http.StatusNotFound,
			message: "Place not found",
		},
		{
			name:    "rating out of range",
			token:   guestToken,
			req:     api.CreateReviewRequest{Text: "Hmm", Rating: 6, PlaceID: place.ID},
			status:  http.StatusBadRequest,
			message: "Invalid rating: too large",
		},
		{
			name:    "writing for someone else",
			token:   guestToken,
			req:     api.CreateReviewRequest{Text: "Forged", Rating: 1, PlaceID: place.ID, UserID: critic.ID},
			status:  http.StatusForbidden,
			message: "Unauthorized action",
		},
		{
			name:    "unauthenticated",
			req:     api.CreateReviewRequest{Text: "Anon", Rating: 3, PlaceID: place.ID},
			status:  http.StatusUnauthorized,
			message: "Authorization header required",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := a.do(http.MethodPost, "/reviews", tc.token, tc.req)
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.message, errorMessage(t, rr))
		})
	}

	t.Run("admin writes on behalf of a user", func(t *testing.T) {
		rr := a.do(http.MethodPost, "/reviews", adminToken, api.CreateReviewRequest{
			Text: "Relayed", Rating: 3, PlaceID: place.ID, UserID: critic.ID,
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.Equal(t, critic.ID, decode[api.ReviewResponse](t, rr).UserID)
	})
}

func TestReviewLifecycle(t *testing.T) {
	a := newTestAPI(t)
	owner, _ := a.user("owner@example.com", false)
	guest, guestToken := a.user("guest@example.com", false)
	_, otherToken := a.user("other@example.com", false)
	_, adminToken := a.user("admin@example.com", true)
	place := a.place(owner.ID)
	review := a.review(guest.ID, place.ID, 4)

	t.Run("get and list", func(t *testing.T) {
		rr := a.do(http.MethodGet, "/reviews/"+review.ID, "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 4, decode[api.ReviewResponse](t, rr).Rating)

		rr = a.do(http.MethodGet, "/reviews", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decode[[]api.ReviewResponse](t, rr), 1)
	})

	t.Run("only the author updates", func(t *testing.T) {
		rr := a.do(http.MethodPut, "/reviews/"+review.ID, otherToken, api.UpdateReviewRequest{Rating: ptr(1)})
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = a.do(http.MethodPut, "/reviews/"+review.ID, guestToken, api.UpdateReviewRequest{
			Rating: ptr(2),
			Text:   ptr("Changed my mind"),
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		got := decode[api.ReviewResponse](t, rr)
		assert.Equal(t, 2, got.Rating)
		assert.Equal(t, "Changed my mind", got.Text)
	})

	t.Run("invalid update", func(t *testing.T) {
		rr := a.do(http.MethodPut, "/reviews/"+review.ID, guestToken, api.UpdateReviewRequest{Rating: ptr(0)})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rr := a.do(http.MethodDelete, "/reviews/"+review.ID, otherToken, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = a.do(http.MethodDelete, "/reviews/"+review.ID, guestToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Review deleted successfully", decode[api.MessageResponse](t, rr).Message)

		rr = a.do(http.MethodGet, "/reviews/"+review.ID, "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Review not found", errorMessage(t, rr))

		rr = a.do(http.MethodDelete, "/reviews/"+review.ID, adminToken, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("guest can review again after deleting", func(t *testing.T) {
		rr := a.do(http.MethodPost, "/reviews", guestToken, api.CreateReviewRequest{
			Text: "Second visit", Rating: 5, PlaceID: place.ID,
		})
		assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	})
}
