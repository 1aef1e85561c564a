package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hackhub/hackhub-admin-api/internal/config"
	"github.com/hackhub/hackhub-admin-api/internal/domain/admin"
	"github.com/hackhub/hackhub-admin-api/internal/domain/hackathon"
	"github.com/hackhub/hackhub-admin-api/internal/domain/live"
	"github.com/hackhub/hackhub-admin-api/internal/domain/moderation"
	"github.com/hackhub/hackhub-admin-api/internal/domain/notification"
	"github.com/hackhub/hackhub-admin-api/internal/domain/queue"
	"github.com/hackhub/hackhub-admin-api/internal/domain/team"
	"github.com/hackhub/hackhub-admin-api/internal/middleware"
	"github.com/hackhub/hackhub-admin-api/internal/pkg/database"
	"github.com/hackhub/hackhub-admin-api/internal/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting HackHub Admin API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := admin.NewJWTService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Repositories ----------
	adminRepo := admin.NewRepository(db)
	queueRepo := queue.NewRepository(db)
	hackathonRepo := hackathon.NewRepository(db)
	teamRepo := team.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	moderationRepo := moderation.NewRepository(db)

	// ---------- Live event hub ----------
	hub := live.NewHub(redis)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Services ----------
	adminService := admin.NewService(adminRepo, redis, cfg.StatsCacheTTL)
	queueService := queue.NewService(queueRepo, adminService, hub)
	hackathonService := hackathon.NewService(hackathonRepo, queueService, adminService)
	notificationService := notification.NewService(notificationRepo)
	moderationService := moderation.NewService(
		moderationRepo, hackathonRepo, teamRepo, notificationService, adminService)

	// ---------- Handlers ----------
	adminHandler := admin.NewHandler(adminService, jwtService)
	queueHandler := queue.NewHandler(queueService)
	hackathonHandler := hackathon.NewHandler(hackathonService)
	moderationHandler := moderation.NewHandler(moderationService)
	liveHandler := live.NewHandler(hub)

	// ---------- Router ----------
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Mount("/", adminHandler.Routes())
		r.Mount("/queue", queueHandler.Routes(jwtService, adminService))
		r.Mount("/hackathons", hackathonHandler.Routes(jwtService, adminService))
		r.Mount("/users", moderationHandler.Routes(jwtService, adminService))
		r.Mount("/live", liveHandler.Routes(jwtService, adminService))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
