package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/CarlosBueno99/bueno-dashboard/internal/cache"
	"github.com/CarlosBueno99/bueno-dashboard/internal/config"
	"github.com/CarlosBueno99/bueno-dashboard/internal/database"
	"github.com/CarlosBueno99/bueno-dashboard/internal/log"
	"github.com/CarlosBueno99/bueno-dashboard/internal/queue"
	"github.com/CarlosBueno99/bueno-dashboard/internal/refresh"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
	"github.com/CarlosBueno99/bueno-dashboard/internal/spotify"
	"github.com/CarlosBueno99/bueno-dashboard/internal/steam"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New("refresher", cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer redisClient.Close()

	spotifyClient := spotify.NewClient(spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RedirectURI:  cfg.Spotify.RedirectURI,
		Timeout:      cfg.Spotify.Timeout,
	}, logger)
	steamClient := steam.NewClient(cfg.Steam.Timeout, logger)

	refresher := refresh.NewRefresher(
		repository.NewSettingsRepository(dbPool),
		repository.NewSnapshotRepository(dbPool),
		cache.NewSnapshotCache(redisClient),
		steamClient,
		spotifyClient,
		logger,
	)

	processor := queue.NewProcessor(refresher, logger)
	consumer := queue.NewConsumer(redisClient, cfg.Redis, cfg.Refresh.ClaimInterval, logger, processor)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.EnsureGroup(runCtx); err != nil {
		logger.Fatal().Err(err).Msg("consumer group setup failed")
	}

	go func() {
		if err := consumer.Start(runCtx); err != nil && err != context.Canceled {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	<-runCtx.Done()
	logger.Info().Msg("shutdown signal received")
	time.Sleep(500 * time.Millisecond)
}
