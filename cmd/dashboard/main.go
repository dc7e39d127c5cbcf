package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/CarlosBueno99/bueno-dashboard/internal/cache"
	"github.com/CarlosBueno99/bueno-dashboard/internal/config"
	"github.com/CarlosBueno99/bueno-dashboard/internal/database"
	"github.com/CarlosBueno99/bueno-dashboard/internal/handlers"
	"github.com/CarlosBueno99/bueno-dashboard/internal/jobs"
	"github.com/CarlosBueno99/bueno-dashboard/internal/log"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
	"github.com/CarlosBueno99/bueno-dashboard/internal/server"
	"github.com/CarlosBueno99/bueno-dashboard/internal/service"
	"github.com/CarlosBueno99/bueno-dashboard/internal/spotify"
	"github.com/CarlosBueno99/bueno-dashboard/internal/steam"
	"github.com/CarlosBueno99/bueno-dashboard/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New("dashboard", cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	if err := database.EnsureSchema(ctx, dbPool); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBuckets(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure buckets failed")
	}

	spotifyClient := spotify.NewClient(spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RedirectURI:  cfg.Spotify.RedirectURI,
		Timeout:      cfg.Spotify.Timeout,
	}, logger)
	steamClient := steam.NewClient(cfg.Steam.Timeout, logger)

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, objectStore, spotifyClient, steamClient, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	permissions := service.NewPermissionService(
		repository.NewPermissionRepository(dbPool),
		repository.NewUserRepository(dbPool),
		logger,
	)
	scheduler := jobs.NewScheduler(redisClient, cfg.Redis.Stream, cfg.Refresh, permissions, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
