package handlers

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/silent2803/NurtiDuo/internal/middleware"
	"github.com/silent2803/NurtiDuo/internal/models"
	"github.com/silent2803/NurtiDuo/internal/services"

	"github.com/rs/zerolog/log"
)

const maxAvatarBytes = 5 << 20 // 5 MiB

// AvatarHandler handles avatar uploads over plain HTTP
type AvatarHandler struct {
	hub            *services.SessionHub
	avatarService  *services.AvatarService
	profileService *services.ProfileService
}

// NewAvatarHandler creates a new avatar handler
func NewAvatarHandler(hub *services.SessionHub, avatarService *services.AvatarService, profileService *services.ProfileService) *AvatarHandler {
	return &AvatarHandler{
		hub:            hub,
		avatarService:  avatarService,
		profileService: profileService,
	}
}

// Upload handles POST /api/v1/avatar (multipart, field "avatar")
func (h *AvatarHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		respondError(w, "Invalid multipart body", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		respondError(w, "avatar file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
	if err != nil {
		respondError(w, "Failed to read avatar file", http.StatusBadRequest)
		return
	}
	if len(data) > maxAvatarBytes {
		respondError(w, "avatar file is too large", http.StatusRequestEntityTooLarge)
		return
	}

	contentType := header.Header.Get("Content-Type")

	// Route through the live session controller when the user has one, so the
	// streamed view state picks up the new avatar immediately.
	if controller, ok := h.hub.Controller(userID); ok {
		if err := controller.UploadAvatar(ctx, header.Filename, data, contentType); err != nil {
			respondUploadError(w, err)
			return
		}
		respondJSON(w, controller.State().Identity, http.StatusOK)
		return
	}

	key := userID + "." + fileExtension(header.Filename)
	if err := h.avatarService.Upload(ctx, key, data, contentType); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to upload avatar")
		respondError(w, "Failed to upload avatar", http.StatusBadGateway)
		return
	}

	url, err := h.avatarService.PublicURL(key)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to resolve avatar URL")
		respondError(w, "Failed to resolve avatar URL", http.StatusBadGateway)
		return
	}

	if err := h.profileService.UpdateAvatarURL(ctx, userID, url); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to persist avatar URL")
		respondError(w, "Failed to persist avatar URL", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user_id", userID).Str("avatar_url", url).Msg("Avatar updated")
	respondJSON(w, map[string]string{"avatar_url": url}, http.StatusOK)
}

func respondUploadError(w http.ResponseWriter, err error) {
	var valErr *models.ValidationError
	if errors.As(err, &valErr) {
		respondError(w, valErr.Error(), http.StatusBadRequest)
		return
	}
	var notAuth *models.NotAuthenticatedError
	if errors.As(err, &notAuth) {
		respondError(w, notAuth.Error(), http.StatusUnauthorized)
		return
	}
	respondError(w, err.Error(), http.StatusBadGateway)
}

func fileExtension(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" {
		return "jpg"
	}
	return ext
}
