package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan represents a tenant billing plan
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Tenant represents a tenant/organization
type Tenant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`

	// Billing
	Plan Plan `json:"plan" db:"plan"`
}
