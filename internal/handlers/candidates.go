package handlers

import (
	"net/http"
	"strconv"

	"github.com/silent2803/NurtiDuo/internal/filter"
	"github.com/silent2803/NurtiDuo/internal/middleware"
	"github.com/silent2803/NurtiDuo/internal/models"
	"github.com/silent2803/NurtiDuo/internal/services"

	"github.com/rs/zerolog/log"
)

// CandidateHandler handles candidate browsing over plain HTTP
type CandidateHandler struct {
	profileService *services.ProfileService
}

// NewCandidateHandler creates a new candidate handler
func NewCandidateHandler(profileService *services.ProfileService) *CandidateHandler {
	return &CandidateHandler{
		profileService: profileService,
	}
}

// List handles GET /api/v1/candidates. Filter settings come from query
// parameters and go through the same engine the WebSocket sessions use, so
// out-of-range ages clamp instead of failing.
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	engine := filter.NewEngine()
	query := r.URL.Query()

	if v := query.Get("min_age"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			engine.SetMinAge(n)
		}
	}
	if v := query.Get("max_age"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			engine.SetMaxAge(n)
		}
	}
	if v := query.Get("male"); v != "" {
		engine.SetGenderIncluded(models.GenderMale, v == "true")
	}
	if v := query.Get("female"); v != "" {
		engine.SetGenderIncluded(models.GenderFemale, v == "true")
	}

	pool, err := h.profileService.Candidates(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list candidates")
		respondError(w, "Failed to list candidates", http.StatusInternalServerError)
		return
	}

	visible := engine.Apply(pool)
	respondJSON(w, map[string]interface{}{
		"candidates": visible,
		"total":      len(visible),
		"filter":     engine.Config(),
	}, http.StatusOK)
}
