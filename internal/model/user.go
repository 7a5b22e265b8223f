package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization role of a user.
type Role string

const (
	// RoleApplicant may register for races and manage its own applications.
	RoleApplicant Role = "Applicant"
	// RoleAdministrator may manage races and every application.
	RoleAdministrator Role = "Administrator"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleApplicant || r == RoleAdministrator
}

// User represents a user entity. Users are provisioned out-of-band.
type User struct {
	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Club        *string    `json:"club,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Role        Role       `json:"role"`
}
