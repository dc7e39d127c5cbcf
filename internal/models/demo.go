package models

import "time"

// Demo is an archived CS2 match demo. The file bytes live in the object
// store; this row only tracks where they are.
type Demo struct {
	ID        string
	ShareCode string
	Bucket    string
	ObjectKey string
	SizeBytes int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
