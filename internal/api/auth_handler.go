package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/hbnb-api/internal/api/shared"
	"github.com/phrazzld/hbnb-api/internal/config"
	"github.com/phrazzld/hbnb-api/internal/platform/logger"
	"github.com/phrazzld/hbnb-api/internal/service"
	"github.com/phrazzld/hbnb-api/internal/service/auth"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	facade     service.Facade
	jwtService auth.JWTService
	authConfig config.AuthConfig
	logger     *slog.Logger
	now        func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	facade service.Facade,
	jwtService auth.JWTService,
	authConfig config.AuthConfig,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		facade:     facade,
		jwtService: jwtService,
		authConfig: authConfig,
		logger:     logger.With(slog.String("component", "auth_handler")),
		now:        time.Now,
	}
}

// Login handles POST /auth/login. It exchanges an email and password for an
// access and refresh token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.facade.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate")
		return
	}

	h.respondWithTokens(w, r, user.ID, user.IsAdmin)
}

// RefreshToken handles POST /auth/refresh. The user is looked up again so
// that a changed admin flag or a deleted account takes effect.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	user, err := h.facade.GetUser(r.Context(), claims.UserID)
	if err != nil {
		HandleAPIError(w, r, auth.ErrInvalidRefreshToken, "Failed to refresh token")
		return
	}

	h.respondWithTokens(w, r, user.ID, user.IsAdmin)
}

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, r *http.Request, userID string, isAdmin bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	issuedAt := h.now()
	accessToken, err := h.jwtService.GenerateToken(r.Context(), userID, isAdmin)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate token")
		return
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), userID, isAdmin)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate token")
		return
	}

	expiresAt := issuedAt.Add(time.Duration(h.authConfig.TokenLifetimeMinutes) * time.Minute)
	log.Info("issued tokens", slog.String("user_id", userID))

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt.UTC().Format(time.RFC3339),
	})
}
