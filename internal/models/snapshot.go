package models

import "time"

// SteamGame is one entry of a user's recently played games.
type SteamGame struct {
	AppID           string `json:"appId"`
	Name            string `json:"name"`
	Playtime2Weeks  int    `json:"playtime2Weeks"`
	PlaytimeForever int    `json:"playtimeForever"`
	ImgIconURL      string `json:"imgIconUrl"`
	ImgLogoURL      string `json:"imgLogoUrl"`
	HeaderImageURL  string `json:"headerImageUrl"`
}

// CSStats are lifetime Counter-Strike stats pulled alongside recent games.
type CSStats struct {
	Kills      int `json:"kills"`
	Deaths     int `json:"deaths"`
	TimePlayed int `json:"timePlayed"`
	Wins       int `json:"wins"`
}

// SteamSnapshot is the cached copy of a user's Steam account data,
// fully replaced on each refresh.
type SteamSnapshot struct {
	UserID      string      `json:"userId"`
	RecentGames []SteamGame `json:"recentGames"`
	CSStats     *CSStats    `json:"csStats,omitempty"`
	RefreshedAt time.Time   `json:"refreshedAt"`
}

type SpotifyArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	ImageURL   string   `json:"imageUrl"`
}

type SpotifyGenre struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type SpotifyTrack struct {
	Name     string   `json:"name"`
	Artists  []string `json:"artists"`
	Album    string   `json:"album"`
	ImageURL string   `json:"imageUrl"`
	PlayedAt string   `json:"playedAt"`
}

// SpotifySnapshot is the cached copy of a user's Spotify listening data,
// fully replaced on each refresh.
type SpotifySnapshot struct {
	UserID          string          `json:"userId"`
	TopArtists      []SpotifyArtist `json:"topArtists"`
	TopGenres       []SpotifyGenre  `json:"topGenres"`
	RecentlyPlayed  []SpotifyTrack  `json:"recentlyPlayed,omitempty"`
	RefreshedAt     time.Time       `json:"refreshedAt"`
}
