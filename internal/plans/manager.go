// Package plans implements tenant plan changes. Upgrade and downgrade
// are idempotent; repeating either reports the current state instead of
// failing.
package plans

import (
	"context"
	"fmt"

	"github.com/notes-saas/notes-server/internal/models"
	"github.com/notes-saas/notes-server/internal/storage"
)

// Change statuses
const (
	StatusUpgraded   = "upgraded"
	StatusAlreadyPro = "already_pro"

	StatusDowngraded  = "downgraded"
	StatusAlreadyFree = "already_free"
)

// Result describes the outcome of a plan change
type Result struct {
	Status string      `json:"status"`
	Plan   models.Plan `json:"plan"`
}

// Manager applies plan changes to tenants
type Manager struct {
	store storage.Store
}

// NewManager creates a plan manager
func NewManager(store storage.Store) *Manager {
	return &Manager{store: store}
}

// Upgrade moves the tenant to the pro plan. Upgrading an already-pro
// tenant is a no-op success.
func (m *Manager) Upgrade(ctx context.Context, tenant *models.Tenant) (*Result, error) {
	if tenant.Plan == models.PlanPro {
		return &Result{Status: StatusAlreadyPro, Plan: tenant.Plan}, nil
	}

	tenant.Plan = models.PlanPro
	if err := m.store.UpdateTenant(ctx, tenant); err != nil {
		return nil, fmt.Errorf("update tenant: %w", err)
	}

	return &Result{Status: StatusUpgraded, Plan: tenant.Plan}, nil
}

// Downgrade moves the tenant to the free plan. Notes already above the
// free cap stay; the cap is enforced only when creating new notes.
func (m *Manager) Downgrade(ctx context.Context, tenant *models.Tenant) (*Result, error) {
	if tenant.Plan == models.PlanFree {
		return &Result{Status: StatusAlreadyFree, Plan: tenant.Plan}, nil
	}

	tenant.Plan = models.PlanFree
	if err := m.store.UpdateTenant(ctx, tenant); err != nil {
		return nil, fmt.Errorf("update tenant: %w", err)
	}

	return &Result{Status: StatusDowngraded, Plan: tenant.Plan}, nil
}
