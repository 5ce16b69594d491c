package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"studyzen-backend/internal/middleware"
	"studyzen-backend/internal/models"
	"studyzen-backend/internal/repository"
)

// AuthService is the identity provider boundary: it turns guest names
// and Google ID tokens into a (uid, profile) pair, creates the store
// record on first login, and manages access/refresh tokens.
type AuthService struct {
	profiles       *repository.ProfileRepo
	sessions       *SessionService
	redis          *redis.Client
	jwt            *middleware.JWTAuth
	googleClientID string
}

func NewAuthService(profiles *repository.ProfileRepo, sessions *SessionService, redisClient *redis.Client, jwt *middleware.JWTAuth, googleClientID string) *AuthService {
	return &AuthService{
		profiles:       profiles,
		sessions:       sessions,
		redis:          redisClient,
		jwt:            jwt,
		googleClientID: googleClientID,
	}
}

// GuestUID derives the stable guest uid from a display name:
// lowercased, whitespace collapsed to underscores.
func GuestUID(username string) string {
	return "guest_" + strings.Join(strings.Fields(strings.ToLower(username)), "_")
}

func (s *AuthService) GuestLogin(ctx context.Context, req models.GuestLoginRequest) (*models.LoginResponse, error) {
	name := strings.TrimSpace(req.Username)
	if len(name) < 2 {
		return nil, &ValidationError{Fields: map[string]string{"username": "Please enter a valid username"}}
	}

	uid := GuestUID(name)
	profile, history, err := s.profiles.Load(ctx, uid)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		email := strings.TrimSpace(req.Email)
		if email == "" {
			email = strings.ToLower(name) + "@guest.studyzen"
		}
		profile = &models.UserProfile{
			UID:         uid,
			DisplayName: name,
			Email:       email,
			Theme:       models.ThemePink,
		}
		profile, history, err = s.createOrReload(ctx, profile)
		if err != nil {
			return nil, err
		}
	}

	return s.finishLogin(ctx, profile, history)
}

// GoogleLogin verifies a Google ID token and logs in or creates the user.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*models.LoginResponse, error) {
	if s.googleClientID == "" {
		return nil, &ValidationError{Fields: map[string]string{"google": "Google sign-in is not configured"}}
	}

	// Verify the ID token using Google's tokeninfo endpoint
	resp, err := http.Get("https://oauth2.googleapis.com/tokeninfo?id_token=" + idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify Google token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UnauthorizedError{Message: "Invalid Google token"}
	}

	var tokenInfo struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Aud   string `json:"aud"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return nil, fmt.Errorf("failed to decode Google token info: %w", err)
	}

	// Verify audience matches our client ID
	if tokenInfo.Aud != s.googleClientID {
		return nil, &UnauthorizedError{Message: "Google token audience mismatch"}
	}
	if tokenInfo.Email == "" || tokenInfo.Sub == "" {
		return nil, &ValidationError{Fields: map[string]string{"google": "Google account missing email"}}
	}

	uid := "google_" + tokenInfo.Sub
	profile, history, err := s.profiles.Load(ctx, uid)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		displayName := tokenInfo.Name
		if displayName == "" {
			displayName = tokenInfo.Email
		}
		profile = &models.UserProfile{
			UID:         uid,
			DisplayName: displayName,
			Email:       tokenInfo.Email,
			Theme:       models.ThemePink,
		}
		profile, history, err = s.createOrReload(ctx, profile)
		if err != nil {
			return nil, err
		}
	}

	return s.finishLogin(ctx, profile, history)
}

// createOrReload inserts a first-login profile. If a concurrent login
// won the insert, the stored row wins.
func (s *AuthService) createOrReload(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, []models.SessionRecord, error) {
	err := s.profiles.Create(ctx, profile, nil)
	if err == nil {
		return profile, nil, nil
	}
	if !errors.Is(err, repository.ErrDuplicateUser) {
		return nil, nil, err
	}

	stored, history, err := s.profiles.Load(ctx, profile.UID)
	if err != nil {
		return nil, nil, err
	}
	if stored == nil {
		return nil, nil, &ConflictError{Message: "Account creation conflict; please try again"}
	}
	return stored, history, nil
}

func (s *AuthService) finishLogin(ctx context.Context, profile *models.UserProfile, history []models.SessionRecord) (*models.LoginResponse, error) {
	s.profiles.UpdateLastLogin(ctx, profile.UID)
	s.sessions.Attach(*profile, history)

	tokens, err := s.issueTokens(ctx, profile)
	if err != nil {
		return nil, err
	}

	if history == nil {
		history = []models.SessionRecord{}
	}
	return &models.LoginResponse{
		Profile: *profile,
		History: history,
		Tokens:  *tokens,
	}, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	uid, err := s.redis.Get(ctx, "refresh:"+refreshToken).Result()
	if err != nil {
		return nil, &UnauthorizedError{Message: "Invalid or expired refresh token. Please log in again."}
	}

	// Delete old token (rotation)
	s.redis.Del(ctx, "refresh:"+refreshToken)

	profile, history, err := s.profiles.Load(ctx, uid)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &UnauthorizedError{Message: "Account no longer exists"}
	}

	// Rebuild in-memory state after a restart without disturbing a
	// live session.
	s.sessions.EnsureAttached(*profile, history)

	return s.issueTokens(ctx, profile)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken, uid string) error {
	if err := s.redis.Del(ctx, "refresh:"+refreshToken).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	s.sessions.Detach(uid)
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, profile *models.UserProfile) (*models.AuthTokens, error) {
	accessToken, err := s.jwt.GenerateAccessToken(profile.UID, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := generateToken(64)
	if err != nil {
		return nil, err
	}

	// Store refresh token in Redis (7 days)
	err = s.redis.Set(ctx, "refresh:"+refreshToken, profile.UID, 7*24*time.Hour).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    900,
	}, nil
}

func generateToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Custom errors
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }
