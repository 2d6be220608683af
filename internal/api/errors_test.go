package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/service"
	"github.com/phrazzld/hbnb-api/internal/service/auth"
	"github.com/phrazzld/hbnb-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized, "Invalid token"},
		{"bad refresh", auth.ErrInvalidRefreshToken, http.StatusUnauthorized, "Invalid refresh token"},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"not owned", service.ErrNotOwned, http.StatusForbidden, "Unauthorized action"},
		{
			"missing owner",
			&service.ReferenceError{Field: "owner_id", ID: "x", Err: store.ErrUserNotFound},
			http.StatusNotFound,
			"Owner not found",
		},
		{
			"unnamed reference",
			&service.ReferenceError{Field: "other", ID: "x", Err: store.ErrNotFound},
			http.StatusNotFound,
			"Referenced entity not found",
		},
		{"wrapped not found", fmt.Errorf("get: %w", store.ErrPlaceNotFound), http.StatusNotFound, "Place not found"},
		{"email taken", store.ErrEmailExists, http.StatusConflict, "Email already registered"},
		{"self review", service.ErrSelfReview, http.StatusBadRequest, "You cannot review your own place"},
		{
			"validation",
			domain.NewValidationError("price", "must be positive", domain.ErrOutOfRange),
			http.StatusBadRequest,
			"invalid price: must be positive",
		},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest, "Invalid entity data"},
		{
			"service failure",
			service.NewServiceError("create place", "store operation failed", errors.New("connection reset")),
			http.StatusInternalServerError,
			"An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, MapErrorToStatusCode(tc.err))
			assert.Equal(t, tc.message, GetSafeErrorMessage(tc.err))
		})
	}

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	assert.Equal(t, "Invalid request format", SanitizeValidationError(errors.New("json: cannot unmarshal")))
	assert.Equal(t, "invalid rating: out of range",
		SanitizeValidationError(domain.NewValidationError("rating", "out of range", nil)))
}
