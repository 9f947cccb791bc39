package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/example/antcal/internal/application"
	"github.com/example/antcal/internal/config"
	httptransport "github.com/example/antcal/internal/http"
	"github.com/example/antcal/internal/logging"
	"github.com/example/antcal/internal/persistence"
	"github.com/example/antcal/internal/persistence/filestore"
	"github.com/example/antcal/internal/persistence/sqlitestore"
)

func main() {
	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, fileStore, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open storage", "error", err, "driver", string(cfg.StoreDriver))
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	idGenerator := uuid.NewString
	now := time.Now

	authService := application.NewAuthService(store, idGenerator, logger)
	calendarService := application.NewCalendarService(store, idGenerator, logger)
	eventService := application.NewEventService(store, idGenerator, logger)
	communityService := application.NewCommunityService(store, idGenerator, now, logger)
	assistantService := application.NewAssistantService(store, now, nil, logger)
	socialService := application.NewSocialService(store, idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(authService, logger),
		Calendars: httptransport.NewCalendarHandler(calendarService, eventService, logger),
		Events:    httptransport.NewEventHandler(eventService, logger),
		Community: httptransport.NewCommunityHandler(communityService, logger),
		Assistant: httptransport.NewAssistantHandler(assistantService, logger),
		Social:    httptransport.NewSocialHandler(socialService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.CORS(),
		},
	})

	if fileStore != nil && cfg.BackupCron != "" {
		scheduler, err := startBackups(ctx, fileStore, cfg, logger)
		if err != nil {
			logger.Error("failed to schedule backups", "error", err, "schedule", cfg.BackupCron)
			os.Exit(1)
		}
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("calendar API listening", "addr", server.Addr, "driver", string(cfg.StoreDriver))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// openStore selects the configured backend. The file store is returned
// separately because only it supports snapshots.
func openStore(cfg config.Config) (persistence.Store, *filestore.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		store, err := sqlitestore.Open(cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		store, err := filestore.Open(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	}
}

func startBackups(ctx context.Context, store *filestore.Store, cfg config.Config, logger *slog.Logger) (*cron.Cron, error) {
	scheduler := cron.New()
	_, err := scheduler.AddFunc(cfg.BackupCron, func() {
		path, err := store.Snapshot(ctx, cfg.BackupDir, time.Now)
		if err != nil {
			logger.Error("store snapshot failed", "error", err, "dir", cfg.BackupDir)
			return
		}
		logger.Info("store snapshot written", "path", path)
	})
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}
