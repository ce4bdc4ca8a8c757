package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role within its tenant
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User represents a system user
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Email string `json:"email" db:"email"`

	PasswordHash string `json:"-" db:"password_hash"`

	Role Role `json:"role" db:"role"`

	// A user belongs to exactly one tenant; the assignment is immutable
	// after creation.
	TenantID uuid.UUID `json:"tenantId" db:"tenant_id"`

	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}
