// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level within their organization.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleViewer Role = "viewer"
)

// User represents a template author with authentication and 2FA fields.
// Every user belongs to exactly one organization; drafts and published
// templates are attributed to that organization.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // Never serialize the hash
	DisplayName    string    `json:"display_name"`
	Role           Role      `json:"role"`
	OrganizationID uuid.UUID `json:"organization_id"`
	TOTPSecret     *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled    bool      `json:"totp_enabled"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAuthor returns true if the user may create or edit template drafts.
func (u *User) CanAuthor() bool {
	return u.Role == RoleAdmin || u.Role == RoleAuthor
}

// Needs2FASetup returns true if the user has not completed 2FA enrollment.
// All users must set up 2FA on their first login.
func (u *User) Needs2FASetup() bool {
	return !u.TOTPEnabled
}
