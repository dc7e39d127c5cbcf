package models

import (
	"time"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
)

type User struct {
	ID                 string
	TokenIdentifier    string
	Name               string
	Email              string
	ImageURL           *string
	OnboardingComplete bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Permission is a user's single role assignment. A user without one is
// treated as below viewer everywhere.
type Permission struct {
	ID        string
	UserID    string
	Role      authz.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
