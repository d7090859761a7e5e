package domain

import "time"

// UserRole distinguishes reporters from managers and admins.
type UserRole string

const (
	RoleReporter UserRole = "REPORTER"
	RoleManager  UserRole = "MANAGER"
	RoleAdmin    UserRole = "ADMIN"
)

// User is the domain model for people who file and manage tickets.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
