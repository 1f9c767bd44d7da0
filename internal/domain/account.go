package domain

import "time"

// Account is a login identity for the gateway. Subject accounts link to the
// student record they own; staff and admin accounts do not.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	StudentID    *string
	Department   string
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
