package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/silent2803/NurtiDuo/internal/models"
	"github.com/silent2803/NurtiDuo/internal/services"
	"github.com/silent2803/NurtiDuo/internal/session"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration and login over plain HTTP
type AuthHandler struct {
	authService    *services.AuthService
	profileService *services.ProfileService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, profileService *services.ProfileService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
	}
}

// LoginRequest is the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and the resolved profile
type LoginResponse struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

// Register handles POST /api/v1/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var form session.Registration
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	input, err := session.ValidateRegistration(form, time.Now())
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID, err := h.authService.SignUp(ctx, input)
	if err != nil {
		var authErr *models.AuthError
		if errors.As(err, &authErr) {
			respondError(w, authErr.Error(), http.StatusConflict)
			return
		}
		log.Error().Err(err).Msg("Failed to register user")
		respondError(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user_id", userID).Msg("User registered")
	respondJSON(w, map[string]string{"user_id": userID}, http.StatusCreated)
}

// Login handles POST /api/v1/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sess, err := h.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		var authErr *models.AuthError
		if errors.As(err, &authErr) {
			respondError(w, authErr.Error(), http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Msg("Failed to sign in")
		respondError(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}

	// Sign-in succeeded; a missing profile is its own failure mode, not a
	// bad-credentials response.
	profile, err := h.profileService.Profile(ctx, sess.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", sess.UserID).Msg("Signed in but profile could not be loaded")
		respondError(w, "Profile could not be loaded", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user_id", sess.UserID).Msg("User signed in")
	respondJSON(w, LoginResponse{Token: sess.Token, Profile: profile}, http.StatusOK)
}
