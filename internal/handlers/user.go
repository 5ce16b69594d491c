package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"studyzen-backend/internal/middleware"
	"studyzen-backend/internal/models"
	"studyzen-backend/internal/repository"
	"studyzen-backend/internal/services"
)

type UserHandler struct {
	sessions *services.SessionService
	profiles *repository.ProfileRepo
}

func NewUserHandler(sessions *services.SessionService, profiles *repository.ProfileRepo) *UserHandler {
	return &UserHandler{sessions: sessions, profiles: profiles}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserID(r.Context())

	profile, err := h.sessions.Profile(uid)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if len(req.DisplayName) < 2 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"display_name": "Display name must be at least 2 characters"}, r))
		return
	}

	uid := middleware.GetUserID(r.Context())
	if err := h.sessions.SetDisplayName(uid, req.DisplayName); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if err := h.profiles.UpdateDisplayName(r.Context(), uid, req.DisplayName); err != nil {
		handleServiceError(w, r, err)
		return
	}

	profile, err := h.sessions.Profile(uid)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	theme, err := models.ParseTheme(req.Theme)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"theme": "Theme must be one of: pink, blue, green"}, r))
		return
	}

	uid := middleware.GetUserID(r.Context())
	if err := h.sessions.SetTheme(uid, theme); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if err := h.profiles.UpdateTheme(r.Context(), uid, theme); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"theme": string(theme)})
}
