package httpapi

import (
	"net/http"
)

// UserHandler serves the authenticated user's own profile.
type UserHandler struct{}

// NewUserHandler constructs the handler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Register attaches the profile route to the mux behind the auth guard.
func (h *UserHandler) Register(mux *http.ServeMux, guard func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /api/user/profile", guard(h.handleProfile))
}

func (h *UserHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided. Please log in.")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
