package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/hbnb-api/internal/api/shared"
	"github.com/phrazzld/hbnb-api/internal/platform/logger"
	"github.com/phrazzld/hbnb-api/internal/service"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	facade service.Facade
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(facade service.Facade, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		facade: facade,
		logger: logger.With(slog.String("component", "user_handler")),
	}
}

// CreateUser handles POST /users. Registration is public; is_admin is only
// honored when an admin makes the request.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	isAdmin := false
	if c, ok := getCaller(r); ok && c.IsAdmin {
		isAdmin = req.IsAdmin
	} else if req.IsAdmin {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Debug("ignoring is_admin on registration by non-admin")
	}

	user, err := h.facade.CreateUser(r.Context(), service.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		IsAdmin:   isAdmin,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.facade.GetAllUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, mapSlice(users, userToResponse))
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathIDOrError(w, r, "id")
	if !ok {
		return
	}

	user, err := h.facade.GetUser(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UpdateUser handles PUT /users/{id}. Users may update their own names;
// email, password and the admin flag can only be changed by an admin.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	c, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := pathIDOrError(w, r, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if !c.can(id) {
		HandleAPIError(w, r, service.ErrNotOwned, "")
		return
	}
	if !c.IsAdmin {
		if req.Email != nil || req.Password != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "You cannot modify email or password")
			return
		}
		if req.IsAdmin != nil {
			shared.RespondWithError(w, r, http.StatusForbidden, "Admin privileges required")
			return
		}
	}

	user, err := h.facade.UpdateUser(r.Context(), id, req.patch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}
