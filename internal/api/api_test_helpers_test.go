package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/hbnb-api/internal/api"
	"github.com/phrazzld/hbnb-api/internal/api/middleware"
	"github.com/phrazzld/hbnb-api/internal/config"
	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/platform/memory"
	"github.com/phrazzld/hbnb-api/internal/service"
	"github.com/phrazzld/hbnb-api/internal/service/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "password123"

// testAPI is the versioned API over a fresh in-memory backend.
type testAPI struct {
	t      *testing.T
	router http.Handler
	facade service.Facade
	jwt    auth.JWTService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	facade, err := service.NewFacade(memory.New(), auth.NewBcryptHasher(bcrypt.MinCost), logger)
	require.NoError(t, err)

	authCfg := config.AuthConfig{
		JWTSecret:                   strings.Repeat("k", 32),
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 24 * 60,
		BcryptCost:                  bcrypt.MinCost,
	}
	jwtService, err := auth.NewJWTService(authCfg)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.Trace(logger))
	r.Route("/api/v1", api.Routes(api.Deps{
		Facade:     facade,
		JWTService: jwtService,
		AuthConfig: authCfg,
		Logger:     logger,
	}))

	return &testAPI{t: t, router: r, facade: facade, jwt: jwtService}
}

// do sends a request to /api/v1+path. body is JSON-encoded unless it is a
// string, which is sent verbatim.
func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		buf = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(a.t, err)
		buf = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// user creates a user through the facade and returns it with an access token.
func (a *testAPI) user(email string, isAdmin bool) (*domain.User, string) {
	a.t.Helper()
	ctx := context.Background()

	u, err := a.facade.CreateUser(ctx, service.CreateUserInput{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  testPassword,
		IsAdmin:   isAdmin,
	})
	require.NoError(a.t, err)

	token, err := a.jwt.GenerateToken(ctx, u.ID, u.IsAdmin)
	require.NoError(a.t, err)
	return u, token
}

func (a *testAPI) amenity(name string) *domain.Amenity {
	a.t.Helper()
	am, err := a.facade.CreateAmenity(context.Background(), service.CreateAmenityInput{Name: name})
	require.NoError(a.t, err)
	return am
}

func (a *testAPI) place(ownerID string, amenityIDs ...string) *domain.Place {
	a.t.Helper()
	p, err := a.facade.CreatePlace(context.Background(), service.CreatePlaceInput{
		Title:      "Loft",
		Price:      120,
		Latitude:   48.85,
		Longitude:  2.35,
		OwnerID:    ownerID,
		AmenityIDs: amenityIDs,
	})
	require.NoError(a.t, err)
	return p
}

func (a *testAPI) review(userID, placeID string, rating int) *domain.Review {
	a.t.Helper()
	r, err := a.facade.CreateReview(context.Background(), service.CreateReviewInput{
		Rating:  rating,
		Text:    "Nice stay",
		UserID:  userID,
		PlaceID: placeID,
	})
	require.NoError(a.t, err)
	return r
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// errorMessage returns the error field of an error response.
func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rr)["error"].(string)
}
