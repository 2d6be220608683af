package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/hbnb-api/internal/api/shared"
	"github.com/phrazzld/hbnb-api/internal/domain"
	"github.com/phrazzld/hbnb-api/internal/platform/logger"
)

// caller is the authenticated user making a request.
type caller struct {
	ID      string
	IsAdmin bool
}

// can reports whether the caller may act on a resource belonging to ownerID.
func (c caller) can(ownerID string) bool {
	return c.IsAdmin || c.ID == ownerID
}

// getCaller extracts the identity placed in the context by the auth
// middleware. ok is false for anonymous requests.
func getCaller(r *http.Request) (caller, bool) {
	id, isAdmin, ok := shared.Identity(r.Context())
	return caller{ID: id, IsAdmin: isAdmin}, ok
}

// requireCaller is getCaller for routes that must be authenticated. It writes
// a 401 response when there is no identity.
func requireCaller(w http.ResponseWriter, r *http.Request) (caller, bool) {
	c, ok := getCaller(r)
	if !ok {
		logger.FromContext(r.Context()).Warn("user ID not found in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
	}
	return c, ok
}

// getPathID extracts a path parameter. Unknown IDs are left to the facade,
// which reports them as not found.
func getPathID(r *http.Request, paramName string) (string, error) {
	id := chi.URLParam(r, paramName)
	if id == "" {
		return "", domain.NewValidationError(paramName, "is required", domain.ErrRequired)
	}
	return id, nil
}

// decodeAndValidate decodes the JSON body into req and validates it,
// writing a 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		HandleValidationError(w, r, err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleValidationError(w, r, err)
		return false
	}
	return true
}

// pathIDOrError is getPathID that writes the error response itself.
func pathIDOrError(w http.ResponseWriter, r *http.Request, paramName string) (string, bool) {
	id, err := getPathID(r, paramName)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return "", false
	}
	return id, true
}
