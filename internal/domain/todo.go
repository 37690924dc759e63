package domain

import "time"

// Todo is a personal task item owned by a single user.
type Todo struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	Priority    int
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
