package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/hbnb-api/internal/api/shared"
	"github.com/phrazzld/hbnb-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(ctx context.Context, userID string, isAdmin bool) (string, error) {
	args := m.Called(ctx, userID, isAdmin)
	return args.String(0), args.Error(1)
}

func (m *mockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

func (m *mockJWTService) GenerateRefreshToken(ctx context.Context, userID string, isAdmin bool) (string, error) {
	args := m.Called(ctx, userID, isAdmin)
	return args.String(0), args.Error(1)
}

func (m *mockJWTService) ValidateRefreshToken(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

type identity struct {
	userID  string
	isAdmin bool
	ok      bool
}

// capture returns a handler that records the identity it was called with.
func capture(got *identity, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		got.userID, got.isAdmin, got.ok = shared.Identity(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		authHeader     string
		token          string
		claims         *auth.Claims
		validateErr    error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer good",
			token:          "good",
			claims:         &auth.Claims{UserID: "user-1", IsAdmin: true},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "lowercase scheme",
			authHeader:     "bearer good",
			token:          "good",
			claims:         &auth.Claims{UserID: "user-1"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Authorization header required",
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic abc",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid authorization format",
		},
		{
			name:           "no token",
			authHeader:     "Bearer",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid authorization format",
		},
		{
			name:           "expired token",
			authHeader:     "Bearer old",
			token:          "old",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Token expired",
		},
		{
			name:           "refresh token used as access token",
			authHeader:     "Bearer refresh",
			token:          "refresh",
			validateErr:    auth.ErrWrongTokenType,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid token",
		},
		{
			name:           "unexpected failure",
			authHeader:     "Bearer boom",
			token:          "boom",
			validateErr:    errors.New("keystore unavailable"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Authentication error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &mockJWTService{}
			if tt.token != "" {
				jwtService.On("ValidateToken", mock.Anything, tt.token).Return(tt.claims, tt.validateErr)
			}

			var got identity
			var called bool
			handler := NewAuthMiddleware(jwtService).Authenticate(capture(&got, &called))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				require.True(t, called)
				assert.Equal(t, identity{tt.claims.UserID, tt.claims.IsAdmin, true}, got)
			} else {
				assert.False(t, called)
				assert.Contains(t, rr.Body.String(), tt.expectedBody)
			}
			jwtService.AssertExpectations(t)
		})
	}
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	jwtService := &mockJWTService{}
	jwtService.On("ValidateToken", mock.Anything, "good").Return(&auth.Claims{UserID: "user-1"}, nil)
	jwtService.On("ValidateToken", mock.Anything, "bad").Return(nil, auth.ErrInvalidToken)
	m := NewAuthMiddleware(jwtService)

	t.Run("anonymous passes through", func(t *testing.T) {
		var got identity
		var called bool
		rr := httptest.NewRecorder()
		m.OptionalAuthenticate(capture(&got, &called)).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, called)
		assert.False(t, got.ok)
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		var got identity
		var called bool
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		rr := httptest.NewRecorder()
		m.OptionalAuthenticate(capture(&got, &called)).ServeHTTP(rr, req)

		assert.Equal(t, identity{"user-1", false, true}, got)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		var got identity
		var called bool
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rr := httptest.NewRecorder()
		m.OptionalAuthenticate(capture(&got, &called)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, called)
	})
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		status int
	}{
		{"anonymous", context.Background(), http.StatusUnauthorized},
		{"regular user", shared.WithIdentity(context.Background(), "user-1", false), http.StatusForbidden},
		{"admin", shared.WithIdentity(context.Background(), "admin-1", true), http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got identity
			var called bool
			req := httptest.NewRequest(http.MethodPost, "/", nil).WithContext(tc.ctx)
			rr := httptest.NewRecorder()
			RequireAdmin(capture(&got, &called)).ServeHTTP(rr, req)

			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.status == http.StatusOK, called)
		})
	}
}

func TestGetUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetUserID(req)
	assert.False(t, ok)

	req = req.WithContext(shared.WithIdentity(req.Context(), "user-1", false))
	userID, ok := GetUserID(req)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)
}
