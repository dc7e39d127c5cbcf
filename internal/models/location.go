package models

import "time"

// LocationRecord is an append-only point in a user's location history.
// Address fields are filled from reverse geocoding when available.
type LocationRecord struct {
	ID          string
	UserID      string
	URL         string
	Latitude    float64
	Longitude   float64
	DisplayName string
	Road        *string
	City        *string
	Country     *string
	InsertedAt  time.Time
}
