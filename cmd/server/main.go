package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyzen-backend/internal/config"
	"studyzen-backend/internal/database"
	"studyzen-backend/internal/handlers"
	"studyzen-backend/internal/middleware"
	"studyzen-backend/internal/repository"
	"studyzen-backend/internal/router"
	"studyzen-backend/internal/services"
	"studyzen-backend/internal/websocket"
	"studyzen-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting StudyZen Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	profileRepo := repository.NewProfileRepo(pool)
	presenceRepo := repository.NewPresenceRepo(redisClients.Queue)

	// ──── Step 5: Start Profile Sync Worker Pool ────
	workerPool := worker.NewPool(redisClients.Queue, profileRepo, cfg.SyncWorkerCount)
	workerPool.Start()

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	sessionService := services.NewSessionService(workerPool, redisClients.PubSub)
	authService := services.NewAuthService(profileRepo, sessionService, redisClients.Queue, jwtAuth, cfg.GoogleClientID)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	timerHandler := handlers.NewTimerHandler(sessionService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	userHandler := handlers.NewUserHandler(sessionService, profileRepo)
	tracksHandler := handlers.NewTracksHandler()
	socialHandler := handlers.NewSocialHandler(sessionService, presenceRepo)

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		timerHandler,
		sessionHandler,
		userHandler,
		tracksHandler,
		socialHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		sessionService.Close()
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ StudyZen Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
