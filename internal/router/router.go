package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"studyzen-backend/internal/handlers"
	"studyzen-backend/internal/middleware"
	"studyzen-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	timerHandler *handlers.TimerHandler,
	sessionHandler *handlers.SessionHandler,
	userHandler *handlers.UserHandler,
	tracksHandler *handlers.TracksHandler,
	socialHandler *handlers.SocialHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/guest", authHandler.GuestLogin)
			r.Post("/google", authHandler.GoogleLogin)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Timer Routes ────
		r.Route("/timer", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", timerHandler.Get)
			r.Post("/start", timerHandler.Start)
			r.Post("/pause", timerHandler.Pause)
			r.Post("/toggle", timerHandler.Toggle)
			r.Post("/reset", timerHandler.Reset)
			r.Post("/finish", timerHandler.Finish)
			r.Put("/preset", timerHandler.SetPreset)
		})

		// ──── Session History & Stats Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", sessionHandler.History)
			r.Get("/stats", sessionHandler.Stats)
			r.Get("/weekly", sessionHandler.Weekly)
		})

		// ──── User & Settings Routes ────
		r.Route("/user", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.GetMe)
			r.Put("/me", userHandler.UpdateMe)
			r.Put("/theme", userHandler.SetTheme)
		})

		// ──── Audio Track Routes ────
		r.Route("/tracks", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", tracksHandler.List)
		})

		// ──── Social Routes ────
		r.Route("/social", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/friends", socialHandler.Friends)
			r.Post("/heartbeat", socialHandler.Heartbeat)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
