package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

const (
	TaskRefreshSpotify = "refresh_spotify"
	TaskRefreshSteam   = "refresh_steam"
)

// SnapshotRefresher is the refresh slice the processor drives.
type SnapshotRefresher interface {
	RefreshSteam(ctx context.Context, userID string) (models.SteamSnapshot, error)
	RefreshSpotify(ctx context.Context, userID string) (models.SpotifySnapshot, error)
}

// TaskPayload is the shape of one enqueued refresh task.
type TaskPayload struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

// Processor dispatches stream entries to the snapshot refresher.
type Processor struct {
	refresher SnapshotRefresher
	log       zerolog.Logger
}

func NewProcessor(refresher SnapshotRefresher, log zerolog.Logger) *Processor {
	return &Processor{refresher: refresher, log: log}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload TaskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if payload.UserID == "" {
		p.log.Warn().Str("message_id", msg.ID).Msg("task without user id, dropping")
		return nil
	}

	switch payload.Type {
	case TaskRefreshSpotify:
		_, err := p.refresher.RefreshSpotify(ctx, payload.UserID)
		return err
	case TaskRefreshSteam:
		_, err := p.refresher.RefreshSteam(ctx, payload.UserID)
		return err
	default:
		p.log.Warn().Str("type", payload.Type).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *TaskPayload) error {
	bytes, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, out)
}
