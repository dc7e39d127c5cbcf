package models

import "time"

type Task struct {
	ID        string
	UserID    string
	Text      string
	Completed bool
	CreatedAt time.Time
}
