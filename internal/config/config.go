package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	Group    string
	Consumer string
}

type StorageConfig struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	BucketDemos string
	UseSSL      bool
	Region      string
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Timeout      time.Duration
}

type SteamConfig struct {
	Timeout time.Duration
}

type GeocodeConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

type RefreshConfig struct {
	SpotifySchedule string
	SteamSchedule   string
	ClaimInterval   time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Auth             AuthConfig
	Spotify          SpotifyConfig
	Steam            SteamConfig
	Geocode          GeocodeConfig
	Refresh          RefreshConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("DASHBOARD")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "dashboard:refresh")
	v.SetDefault("redis.group", "refreshers")
	v.SetDefault("redis.consumer", "refresher-1")

	v.SetDefault("storage.bucketdemos", "dashboard-demos")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("spotify.redirecturi", "http://localhost:3000/admin/spotify-callback")
	v.SetDefault("spotify.timeout", "10s")

	v.SetDefault("steam.timeout", "10s")

	v.SetDefault("geocode.baseurl", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.useragent", "bueno-dashboard/1.0")
	v.SetDefault("geocode.timeout", "5s")

	// Spotify every 10 minutes, Steam hourly.
	v.SetDefault("refresh.spotifyschedule", "0 */10 * * * *")
	v.SetDefault("refresh.steamschedule", "0 0 * * * *")
	v.SetDefault("refresh.claiminterval", "2m")
}
