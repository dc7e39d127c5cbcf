package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/CarlosBueno99/bueno-dashboard/internal/config"
	"github.com/CarlosBueno99/bueno-dashboard/internal/queue"
)

// OwnerResolver looks up the user whose snapshots the scheduled refreshes
// target.
type OwnerResolver interface {
	OwnerUserID(ctx context.Context) (string, error)
}

// Scheduler enqueues periodic snapshot refreshes for the dashboard owner.
// The stream consumer does the actual work.
type Scheduler struct {
	cron   *cron.Cron
	queue  *redis.Client
	stream string
	cfg    config.RefreshConfig
	owner  OwnerResolver
	log    zerolog.Logger
}

func NewScheduler(queueClient *redis.Client, stream string, cfg config.RefreshConfig, owner OwnerResolver, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		queue:  queueClient,
		stream: stream,
		cfg:    cfg,
		owner:  owner,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.SpotifySchedule, s.enqueueSpotifyRefresh); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.SteamSchedule, s.enqueueSteamRefresh); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits briefly for in-flight enqueues.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) enqueueSpotifyRefresh() {
	s.enqueueOwnerTask(queue.TaskRefreshSpotify)
}

func (s *Scheduler) enqueueSteamRefresh() {
	s.enqueueOwnerTask(queue.TaskRefreshSteam)
}

func (s *Scheduler) enqueueOwnerTask(taskType string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ownerID, err := s.owner.OwnerUserID(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("type", taskType).Msg("skip scheduled refresh, no owner")
		return
	}

	if _, err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"type":    taskType,
			"user_id": ownerID,
		},
	}).Result(); err != nil {
		s.log.Error().Err(err).Str("type", taskType).Msg("enqueue refresh failed")
		return
	}
	s.log.Debug().Str("type", taskType).Str("user_id", ownerID).Msg("refresh enqueued")
}
