package models

import (
	"time"
)

type UserProfile struct {
	UID                    string     `json:"uid"`
	DisplayName            string     `json:"display_name"`
	Email                  string     `json:"email"`
	Theme                  Theme      `json:"theme"`
	TotalFocusMinutes      int        `json:"total_focus_minutes"`
	TotalSessionsCompleted int        `json:"total_sessions_completed"`
	CreatedAt              time.Time  `json:"created_at"`
	LastLoginAt            *time.Time `json:"last_login_at,omitempty"`
}

type GuestLoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type LoginResponse struct {
	Profile UserProfile     `json:"profile"`
	History []SessionRecord `json:"history"`
	Tokens  AuthTokens      `json:"tokens"`
}
