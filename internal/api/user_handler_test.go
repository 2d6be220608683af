package api_test

import (
	"net/http"
	"testing"

	"github.com/phrazzld/hbnb-api/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRequest(email string) api.CreateUserRequest {
	return api.CreateUserRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  testPassword,
	}
}

func TestCreateUser(t *testing.T) {
	a := newTestAPI(t)
	_, adminToken := a.user("admin@example.com", true)

	t.Run("public registration", func(t *testing.T) {
		rr := a.do(http.MethodPost, "/users", "", newUserRequest("Jane@Example.com"))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		body := decode[map[string]any](t, rr)
		assert.Equal(t, "jane@example.com", body["email"])
		assert.NotEmpty(t, body["id"])
		assert.NotEmpty(t, body["created_at"])
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "hashed_password")
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		rr := a.do(http.MethodPost, "/users", "", newUserRequest("jane@example.com"))
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "Email already registered", errorMessage(t, rr))
	})

	t.Run("is_admin is ignored for anonymous callers", func(t *testing.T) {
		req := newUserRequest("sneaky@example.com")
		req.IsAdmin = true
		rr := a.do(http.MethodPost, "/users", "", req)
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.False(t, decode[api.UserResponse](t, rr).IsAdmin)
	})

	t.Run("admins can create admins", func(t *testing.T) {
		req := newUserRequest("second-admin@example.com")
		req.IsAdmin = true
		rr := a.do(http.MethodPost, "/users", adminToken, req)
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.True(t, decode[api.UserResponse](t, rr).IsAdmin)
	})

	t.Run("validation", func(t *testing.T) {
		req := newUserRequest("bad-email")
		rr := a.do(http.MethodPost, "/users", "", req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		req = newUserRequest("short@example.com")
		req.Password = "short"
		rr = a.do(http.MethodPost, "/users", "", req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid password: too short", errorMessage(t, rr))

		req = newUserRequest("blank@example.com")
		req.FirstName = "   "
		rr = a.do(http.MethodPost, "/users", "", req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "the domain rejects blank names")
	})
}

func TestGetUsers(t *testing.T) {
	a := newTestAPI(t)
	user, _ := a.user("jane@example.com", false)
	a.user("john@example.com", false)

	rr := a.do(http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]api.UserResponse](t, rr), 2)

	rr = a.do(http.MethodGet, "/users/"+user.ID, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "jane@example.com", decode[api.UserResponse](t, rr).Email)

	rr = a.do(http.MethodGet, "/users/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", errorMessage(t, rr))
}

func TestUpdateUser(t *testing.T) {
	a := newTestAPI(t)
	jane, janeToken := a.user("jane@example.com", false)
	john, _ := a.user("john@example.com", false)
	_, adminToken := a.user("admin@example.com", true)

	newName := "Janet"
	newEmail := "janet@example.com"
	promote := true

	t.Run("requires authentication", func(t *testing.T) {
		rr := a.do(http.MethodPut, "/users/"+jane.ID, "", api.UpdateUserRequest{FirstName: &newName})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("self update of names", func(t *testing.T) {
		rr := a.do(http.MethodPut, "/users/"+jane.ID, janeToken, api.UpdateUserRequest{FirstName: &newName})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "Janet", decode[api.UserResponse](t, rr).FirstName)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		rr := a.do(http.MethodPut, "/users/"+john.ID, janeToken, api.UpdateUserRequest{FirstName: &newName})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("non-admins cannot change email", func(t *testing.T) {
		rr := a.do(http.MethodPut, "/users/"+jane.ID, janeToken, api.UpdateUserRequest{Email: &newEmail})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "You cannot modify email or password", errorMessage(t, rr))
	})

	t.Run("non-admins cannot promote themselves", func(t *testing.T) {
		rr := a.do(http.MethodPut, "/users/"+jane.ID, janeToken, api.UpdateUserRequest{IsAdmin: &promote})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin changes email", func(t *testing.T) {
		rr := a.do(http.MethodPut, "/users/"+jane.ID, adminToken, api.UpdateUserRequest{Email: &newEmail})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, newEmail, decode[api.UserResponse](t, rr).Email)
	})

	t.Run("admin cannot reuse a taken email", func(t *testing.T) {
		taken := "john@example.com"
		rr := a.do(http.MethodPut, "/users/"+jane.ID, adminToken, api.UpdateUserRequest{Email: &taken})
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		rr := a.do(http.MethodPut, "/users/unknown", adminToken, api.UpdateUserRequest{FirstName: &newName})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
