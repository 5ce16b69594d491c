package handlers

import (
	"net/http"

	"studyzen-backend/internal/middleware"
	"studyzen-backend/internal/services"
)

type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserID(r.Context())

	history, err := h.sessions.History(uid)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": history})
}

func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserID(r.Context())

	stats, err := h.sessions.Stats(uid)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *SessionHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserID(r.Context())

	weekly, err := h.sessions.Weekly(uid)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"weekly": weekly})
}
