package models

import "time"

// WebsiteSettings holds a user's third-party credentials. One row per user,
// upserted by OAuth callbacks and the settings form.
type WebsiteSettings struct {
	ID                   string
	UserID               string
	SteamAPIKey          *string
	SteamID              *string
	SpotifyRefreshToken  *string
	LocationPasswordHash []byte
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
