package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pagewise/pagewise-api/internal/config"
	"github.com/pagewise/pagewise-api/internal/domain/account"
	"github.com/pagewise/pagewise-api/internal/domain/auth"
	"github.com/pagewise/pagewise-api/internal/domain/comment"
	"github.com/pagewise/pagewise-api/internal/domain/folder"
	"github.com/pagewise/pagewise-api/internal/domain/relationship"
	"github.com/pagewise/pagewise-api/internal/domain/report"
	"github.com/pagewise/pagewise-api/internal/domain/story"
	"github.com/pagewise/pagewise-api/internal/middleware"
	"github.com/pagewise/pagewise-api/internal/pkg/database"
	"github.com/pagewise/pagewise-api/internal/pkg/imaging"
	"github.com/pagewise/pagewise-api/internal/pkg/jwt"
	pkgresponse "github.com/pagewise/pagewise-api/internal/pkg/response"
	"github.com/pagewise/pagewise-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Pagewise API")

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

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	store, err := storage.New(storage.Config{
		Backend:      cfg.StorageBackend,
		S3Endpoint:   cfg.S3Endpoint,
		S3Region:     cfg.S3Region,
		S3Bucket:     cfg.S3Bucket,
		S3AccessKey:  cfg.S3AccessKey,
		S3SecretKey:  cfg.S3SecretKey,
		R2AccountID:  cfg.R2AccountID,
		R2PublicURL:  cfg.R2PublicURL,
		LocalPath:    cfg.LocalPath,
		LocalBaseURL: cfg.LocalBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage backend")
	}

	processor := imaging.NewProcessor(imaging.DefaultConfig())

	// ---------- Repositories ----------
	accountRepo := account.NewRepository(db)
	relationshipRepo := relationship.NewRepository(db)
	storyRepo := story.NewRepository(db)
	commentRepo := comment.NewRepository(db)
	folderRepo := folder.NewRepository(db)
	reportRepo := report.NewRepository(db)

	// ---------- Services ----------
	relationshipService := relationship.NewService(relationshipRepo, accountRepo)
	accountService := account.NewService(accountRepo, store, processor, relationshipService)
	authService := auth.NewService(accountRepo, jwtService, redis)
	storyService := story.NewService(storyRepo)
	commentService := comment.NewService(commentRepo, storyRepo, accountRepo)
	folderService := folder.NewService(folderRepo, storyRepo, accountRepo, store, processor)
	reportService := report.NewService(reportRepo, accountRepo, storyRepo)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	accountHandler := account.NewHandler(accountService)
	relationshipHandler := relationship.NewHandler(relationshipService)
	storyHandler := story.NewHandler(storyService)
	commentHandler := comment.NewHandler(commentService)
	folderHandler := folder.NewHandler(folderService)
	reportHandler := report.NewHandler(reportService)

	authMiddleware := middleware.Auth(jwtService)
	optionalAuth := middleware.OptionalAuth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/users", accountHandler.Routes(authMiddleware))
		r.Mount("/follows", relationshipHandler.Routes(authMiddleware))
		r.Mount("/stories", storyHandler.Routes(authMiddleware, optionalAuth))
		r.Mount("/comments", commentHandler.Routes(authMiddleware, optionalAuth))
		r.Mount("/folders", folderHandler.Routes(authMiddleware, optionalAuth))
		r.Mount("/reports", reportHandler.Routes(authMiddleware))

		r.Get("/users/{id}/followers", relationshipHandler.ListFollowers)
		r.Get("/users/{id}/following", relationshipHandler.ListFollowing)
		r.Get("/users/{id}/follow-counts", relationshipHandler.Counts)
		r.With(optionalAuth).Get("/users/{id}/stories", storyHandler.ListByUser)
		r.Get("/users/{id}/story-count", storyHandler.CountByUser)
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

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
