package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
	"github.com/CarlosBueno99/bueno-dashboard/internal/geocode"
	"github.com/CarlosBueno99/bueno-dashboard/internal/ids"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
	"github.com/CarlosBueno99/bueno-dashboard/internal/security"
)

type LocationStore interface {
	Create(ctx context.Context, record models.LocationRecord) error
	ListByUser(ctx context.Context, userID string) ([]models.LocationRecord, error)
}

type SettingsGetter interface {
	GetByUserID(ctx context.Context, userID string) (models.WebsiteSettings, error)
}

// Geocoder resolves coordinates to a place. Failures are tolerated; the
// record is stored without address detail.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (geocode.Place, error)
}

// LocationService guards the append-only location history.
type LocationService struct {
	locations LocationStore
	users     UserGetter
	roles     RoleStore
	settings  SettingsGetter
	geocoder  Geocoder
	log       zerolog.Logger
}

func NewLocationService(
	locations LocationStore,
	users UserGetter,
	roles RoleStore,
	settings SettingsGetter,
	geocoder Geocoder,
	log zerolog.Logger,
) *LocationService {
	return &LocationService{
		locations: locations,
		users:     users,
		roles:     roles,
		settings:  settings,
		geocoder:  geocoder,
		log:       log,
	}
}

// AuthenticateIntake checks the per-user location password that external
// trackers send with each ping.
func (s *LocationService) AuthenticateIntake(ctx context.Context, userID string, password string) error {
	settings, err := s.settings.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return fmt.Errorf("%w: no location password configured", ErrNotAuthenticated)
		}
		return fmt.Errorf("load settings: %w", err)
	}
	if len(settings.LocationPasswordHash) == 0 {
		return fmt.Errorf("%w: no location password configured", ErrNotAuthenticated)
	}

	ok, err := security.VerifyPassword(password, settings.LocationPasswordHash)
	if err != nil || !ok {
		return fmt.Errorf("%w: bad location password", ErrNotAuthenticated)
	}
	return nil
}

type AddLocationInput struct {
	UserID      string
	URL         string
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// Add appends a location record for the target user. The display name and
// address fields come from reverse geocoding when the tracker did not send
// one; a geocoder failure degrades to coordinates-only.
func (s *LocationService) Add(ctx context.Context, input AddLocationInput) (models.LocationRecord, error) {
	if input.Latitude < -90 || input.Latitude > 90 || input.Longitude < -180 || input.Longitude > 180 {
		return models.LocationRecord{}, fmt.Errorf("%w: coordinates out of range", ErrValidation)
	}

	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.LocationRecord{}, fmt.Errorf("%w: user %s", ErrNotFound, input.UserID)
		}
		return models.LocationRecord{}, fmt.Errorf("load user: %w", err)
	}

	record := models.LocationRecord{
		ID:          ids.New(),
		UserID:      input.UserID,
		URL:         input.URL,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		DisplayName: input.DisplayName,
		InsertedAt:  time.Now().UTC(),
	}

	if s.geocoder != nil {
		place, err := s.geocoder.Reverse(ctx, input.Latitude, input.Longitude)
		if err != nil {
			s.log.Warn().Err(err).Msg("reverse geocode failed")
		} else {
			if record.DisplayName == "" {
				record.DisplayName = place.DisplayName
			}
			if place.Road != "" {
				road := place.Road
				record.Road = &road
			}
			if place.City != "" {
				city := place.City
				record.City = &city
			}
			if place.Country != "" {
				country := place.Country
				record.Country = &country
			}
		}
	}

	if err := s.locations.Create(ctx, record); err != nil {
		return models.LocationRecord{}, fmt.Errorf("store location: %w", err)
	}
	return record, nil
}

// History returns the target user's location records newest-first, or an
// empty list when the target's own stored role does not grant visibility.
// The check runs against the record owner's role, not the caller's.
func (s *LocationService) History(ctx context.Context, targetUserID string) ([]models.LocationRecord, error) {
	ownerRole, err := roleOf(ctx, s.roles, targetUserID)
	if err != nil {
		return nil, err
	}
	if !authz.CanReadLocationHistory(ownerRole) {
		return []models.LocationRecord{}, nil
	}

	records, err := s.locations.ListByUser(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	if records == nil {
		records = []models.LocationRecord{}
	}
	return records, nil
}
