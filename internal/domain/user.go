package domain

import "time"

// Role is the privilege level assigned to a user at registration.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the domain model for registered accounts.
type User struct {
	ID           int64
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
