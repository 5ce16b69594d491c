package handlers

import (
	"encoding/json"
	"net/http"

	"studyzen-backend/internal/middleware"
	"studyzen-backend/internal/repository"
	"studyzen-backend/internal/services"
)

type SocialHandler struct {
	sessions *services.SessionService
	presence *repository.PresenceRepo
}

func NewSocialHandler(sessions *services.SessionService, presence *repository.PresenceRepo) *SocialHandler {
	return &SocialHandler{sessions: sessions, presence: presence}
}

// Friends lists users with a live presence heartbeat, excluding the
// caller.
func (h *SocialHandler) Friends(w http.ResponseWriter, r *http.Request) {
	uid := middleware.GetUserID(r.Context())

	online, err := h.presence.Online(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load friends", r))
		return
	}

	friends := make([]repository.FriendPresence, 0, len(online))
	for _, p := range online {
		if p.UID == uid {
			continue
		}
		friends = append(friends, p)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"friends": friends})
}

func (h *SocialHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Status == "" {
		req.Status = "Online"
	}

	uid := middleware.GetUserID(r.Context())
	profile, err := h.sessions.Profile(uid)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	err = h.presence.Heartbeat(r.Context(), repository.FriendPresence{
		UID:         uid,
		DisplayName: profile.DisplayName,
		Status:      req.Status,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to record heartbeat", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Heartbeat recorded"})
}
