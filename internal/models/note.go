package models

import (
	"time"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
)

// PrivateNote is visible to its owner and to anyone whose ladder role is at
// least AccessLevel. AccessLevel never exceeds the creator's role at
// creation time.
type PrivateNote struct {
	ID          string
	UserID      string
	Title       string
	Content     string
	AccessLevel authz.Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
