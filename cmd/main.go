package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/club-tournaments/config"
	"github.com/Dosada05/club-tournaments/db"
	"github.com/Dosada05/club-tournaments/handlers"
	"github.com/Dosada05/club-tournaments/realtime"
	"github.com/Dosada05/club-tournaments/repositories"
	api "github.com/Dosada05/club-tournaments/routes"
	"github.com/Dosada05/club-tournaments/services"
	"github.com/Dosada05/club-tournaments/storage"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort), slog.String("store", string(cfg.StoreBackend)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		store  repositories.Store
		dbConn *sql.DB
	)
	switch cfg.StoreBackend {
	case config.StoreMemory:
		store = repositories.NewMemoryStore()
		logger.Warn("using in-memory store; data is lost on restart")
	default:
		dbConn, err = db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			} else {
				logger.Info("database connection closed")
			}
		}()
		if err := db.Migrate(ctx, dbConn); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		store = repositories.NewPostgresStore(dbConn, logger)
		logger.Info("database connection established")
	}

	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewR2Uploader(ctx, cfg.R2)
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured; logo uploads are disabled")
	}

	hub := realtime.NewHub(logger)
	go hub.Run(ctx)

	authService := services.NewAuthService(store.Users())
	clubService := services.NewClubService(store)
	teamService := services.NewTeamService(store)
	tournamentService := services.NewTournamentService(store, uploader, hub, logger)
	registrationService := services.NewRegistrationService(store, hub, logger)
	applicationService := services.NewApplicationService(store, hub, logger)

	scheduler := services.NewRegistrationScheduler(tournamentService, cfg.SchedulerInterval, logger)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Error("failed to stop scheduler", slog.Any("error", err))
		}
	}()

	var pinger handlers.Pinger
	if dbConn != nil {
		pinger = dbConn
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:        handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		User:        handlers.NewUserHandler(authService),
		Club:        handlers.NewClubHandler(clubService),
		Team:        handlers.NewTeamHandler(teamService),
		Tournament:  handlers.NewTournamentHandler(tournamentService),
		Participant: handlers.NewParticipantHandler(registrationService),
		Application: handlers.NewApplicationHandler(applicationService),
		WebSocket:   handlers.NewWebSocketHandler(hub, tournamentService, cfg.CORSAllowedOrigins, logger),
		Health:      handlers.NewHealthHandler(pinger),
	}, cfg.JWTSecretKey, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server shutdown complete")
	return nil
}
