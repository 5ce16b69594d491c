package handlers

import (
	"encoding/json"
	"net/http"

	"studyzen-backend/internal/middleware"
	"studyzen-backend/internal/models"
	"studyzen-backend/internal/services"
)

type TimerHandler struct {
	sessions *services.SessionService
}

func NewTimerHandler(sessions *services.SessionService) *TimerHandler {
	return &TimerHandler{sessions: sessions}
}

func (h *TimerHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserID(r.Context())

	state, err := h.sessions.TimerState(uid)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *TimerHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.sessions.StartTimer)
}

func (h *TimerHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.sessions.PauseTimer)
}

func (h *TimerHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.sessions.ToggleTimer)
}

func (h *TimerHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.sessions.ResetTimer)
}

func (h *TimerHandler) Finish(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.sessions.FinishTimer)
}

func (h *TimerHandler) SetPreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	uid := middleware.GetUserID(r.Context())
	state, err := h.sessions.SetTimerPreset(uid, req.Minutes)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (h *TimerHandler) command(w http.ResponseWriter, r *http.Request, fn func(string) (models.TimerState, error)) {
	uid := middleware.GetUserID(r.Context())

	state, err := fn(uid)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}
