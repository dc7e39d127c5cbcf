package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/CarlosBueno99/bueno-dashboard/internal/cache"
	"github.com/CarlosBueno99/bueno-dashboard/internal/config"
	"github.com/CarlosBueno99/bueno-dashboard/internal/geocode"
	"github.com/CarlosBueno99/bueno-dashboard/internal/identity"
	"github.com/CarlosBueno99/bueno-dashboard/internal/middleware"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/refresh"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
	"github.com/CarlosBueno99/bueno-dashboard/internal/service"
	"github.com/CarlosBueno99/bueno-dashboard/internal/spotify"
	"github.com/CarlosBueno99/bueno-dashboard/internal/steam"
	"github.com/CarlosBueno99/bueno-dashboard/internal/storage"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	db       *pgxpool.Pool
	cache    *redis.Client
	resolver *identity.Resolver

	users       *repository.UserRepository
	notes       *service.NoteService
	permissions *service.PermissionService
	locations   *service.LocationService
	settings    *service.SettingsService
	tasks       *service.TaskService
	demos       *service.DemoService
	snapshots   *service.SnapshotService
	refresher   *refresh.Refresher
	spotify     *spotify.Client
}

func NewHandlerSet(
	log zerolog.Logger,
	db *pgxpool.Pool,
	cacheClient *redis.Client,
	store *storage.ObjectStore,
	spotifyClient *spotify.Client,
	steamClient *steam.Client,
	cfg *config.AppConfig,
) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	demoRepo := repository.NewDemoRepository(db)

	snapshotCache := cache.NewSnapshotCache(cacheClient)
	geocoder := geocode.NewClient(cfg.Geocode)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		db:       db,
		cache:    cacheClient,
		resolver: identity.NewResolver(userRepo, permissionRepo, log),

		users:       userRepo,
		notes:       service.NewNoteService(noteRepo, permissionRepo, log),
		permissions: service.NewPermissionService(permissionRepo, userRepo, log),
		locations:   service.NewLocationService(locationRepo, userRepo, permissionRepo, settingsRepo, geocoder, log),
		settings:    service.NewSettingsService(settingsRepo, log),
		tasks:       service.NewTaskService(taskRepo),
		demos:       service.NewDemoService(demoRepo, store, permissionRepo, log),
		snapshots:   service.NewSnapshotService(snapshotRepo, snapshotCache, permissionRepo, log),
		refresher:   refresh.NewRefresher(settingsRepo, snapshotRepo, snapshotCache, steamClient, spotifyClient, log),
		spotify:     spotifyClient,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	// Location intake authenticates with the per-user password, not a
	// bearer token; trackers have no browser session.
	v1.POST("/locations/:userId", h.AddLocation)

	authed := v1.Group("")
	authed.Use(middleware.Auth(h.cfg, h.resolver))
	{
		authed.GET("/me", h.Me)
		authed.PATCH("/me", h.UpdateMe)

		authed.GET("/permissions/me", h.MyPermission)
		authed.GET("/permissions/owner", h.Owner)
		authed.PUT("/permissions/:userId", h.SetPermission)
		authed.GET("/access/:page", h.PageAccess)

		authed.GET("/notes", h.ListNotes)
		authed.POST("/notes", h.CreateNote)
		authed.DELETE("/notes/:noteId", h.DeleteNote)

		authed.GET("/locations/:userId/history", h.LocationHistory)

		authed.GET("/settings", h.GetSettings)
		authed.PUT("/settings", h.SaveSettings)
		authed.POST("/settings/location-password", h.SetLocationPassword)

		authed.GET("/spotify", h.SpotifySnapshot)
		authed.POST("/spotify/refresh", h.RefreshSpotify)
		authed.GET("/spotify/auth-url", h.SpotifyAuthURL)
		authed.POST("/spotify/callback", h.SpotifyCallback)

		authed.GET("/steam", h.SteamSnapshot)
		authed.POST("/steam/refresh", h.RefreshSteam)

		authed.GET("/tasks", h.ListTasks)
		authed.POST("/tasks", h.CreateTask)
		authed.PATCH("/tasks/:taskId", h.UpdateTask)
		authed.DELETE("/tasks/:taskId", h.DeleteTask)

		authed.GET("/demos", h.ListDemos)
		authed.POST("/demos", h.ArchiveDemo)
		authed.GET("/demos/:shareCode", h.DownloadDemo)
	}
}

// respondError maps the service sentinels to HTTP statuses.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream_failed"})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
	}
}

func (h HandlerSet) currentUser(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return user, ok
}
