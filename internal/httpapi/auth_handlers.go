package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"paperless/internal/auth"
	"paperless/internal/config"
	"paperless/internal/logger"
	"paperless/internal/models"
	"paperless/internal/storage"
)

type signupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    userPayload `json:"user"`
}

// AuthHandler owns the signup, login, and Google OAuth endpoints.
type AuthHandler struct {
	users  storage.UserStore
	tokens *auth.TokenManager
	google *auth.GoogleClient
	cfg    *config.Config
}

// NewAuthHandler constructs the handler. google may be nil when OAuth
// is not configured.
func NewAuthHandler(users storage.UserStore, tokens *auth.TokenManager, google *auth.GoogleClient, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, google: google, cfg: cfg}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/signup", h.handleSignup)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("GET /auth/google", h.handleGoogleStart)
	mux.HandleFunc("GET /auth/google/callback", h.handleGoogleCallback)
}

func (h *AuthHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" || email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "firstName, email and password are required")
		return
	}

	name := firstName
	if lastName := strings.TrimSpace(req.LastName); lastName != "" {
		name += " " + lastName
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to hash password")
		writeError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}

	user, err := h.users.CreateUser(r.Context(), models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			writeError(w, http.StatusBadRequest, "User already exists. Please login instead.")
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to create user")
		writeError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Account not found. Please sign up first.")
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to look up user for login")
		writeError(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	if !user.HasPassword() {
		// Provider-only account: never attempt a password comparison.
		writeError(w, http.StatusBadRequest, "This account was created with Google. Please login with Google.")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		logger.Log.Warn().Str("email", logger.HashEmail(email)).Msg("Login failed: bad credential")
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.users.TouchLastLogin(r.Context(), user.ID); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to update last login")
	}

	h.respondWithToken(w, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user models.User) {
	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	writeJSON(w, status, authResponse{
		Success: true,
		Token:   token,
		User:    userPayload{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

func (h *AuthHandler) handleGoogleStart(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusServiceUnavailable, "Google login is not configured.")
		return
	}
	mode := r.URL.Query().Get("mode")
	if mode != "signup" {
		mode = "login"
	}
	// The mode rides along in the OAuth state so the callback knows
	// whether account creation is permitted.
	http.Redirect(w, r, h.google.AuthURL(mode), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusServiceUnavailable, "Google login is not configured.")
		return
	}

	q := r.URL.Query()
	if errMsg := q.Get("error"); errMsg != "" {
		h.redirectWithError(w, r, "Authentication failed")
		return
	}
	code := q.Get("code")
	if code == "" {
		h.redirectWithError(w, r, "Authentication failed")
		return
	}

	profile, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Google code exchange failed")
		h.redirectWithError(w, r, "server_error")
		return
	}

	user, isNew, err := h.externalLogin(r, profile, q.Get("state"))
	if err != nil {
		h.redirectWithError(w, r, err.Error())
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to generate token")
		h.redirectWithError(w, r, "token_error")
		return
	}

	params := url.Values{"token": {token}, "success": {"true"}}
	if isNew {
		params.Set("isNewUser", "true")
	}
	http.Redirect(w, r, h.cfg.ClientURL+"?"+params.Encode(), http.StatusFound)
}

// externalLogin resolves a Google profile to a local user. Only signup
// mode may create an account; login mode fails when none exists yet.
func (h *AuthHandler) externalLogin(r *http.Request, profile auth.GoogleProfile, mode string) (models.User, bool, error) {
	ctx := r.Context()

	user, err := h.users.GetUserByGoogleID(ctx, profile.ID)
	if err == nil {
		if err := h.users.TouchLastLogin(ctx, user.ID); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to update last login")
		}
		return user, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		logger.Log.Error().Err(err).Msg("Failed to look up user by google id")
		return models.User{}, false, errors.New("server_error")
	}

	if mode != "signup" {
		return models.User{}, false, errors.New("Account not found. Please sign up first.")
	}

	created, err := h.users.CreateUser(ctx, models.User{
		GoogleID:   profile.ID,
		Name:       profile.Name,
		Email:      strings.ToLower(profile.Email),
		ProfilePic: profile.Picture,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, false, errors.New("An account with this email already exists.")
		}
		logger.Log.Error().Err(err).Msg("Failed to create user from google profile")
		return models.User{}, false, errors.New("server_error")
	}
	return created, true, nil
}

func (h *AuthHandler) redirectWithError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, h.cfg.ClientURL+"?error="+url.QueryEscape(message), http.StatusFound)
}
