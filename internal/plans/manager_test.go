package plans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notes-saas/notes-server/internal/models"
	"github.com/notes-saas/notes-server/internal/storage/storetest"
)

func newTestManager(t *testing.T) (*Manager, *models.Tenant) {
	t.Helper()

	store := storetest.New()
	tenant := &models.Tenant{Name: "Acme", Slug: "acme", Plan: models.PlanFree}
	require.NoError(t, store.CreateTenant(context.Background(), tenant))

	return NewManager(store), tenant
}

func TestUpgradeIsIdempotent(t *testing.T) {
	m, tenant := newTestManager(t)
	ctx := context.Background()

	result, err := m.Upgrade(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, StatusUpgraded, result.Status)
	assert.Equal(t, models.PlanPro, result.Plan)

	result, err = m.Upgrade(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyPro, result.Status)
	assert.Equal(t, models.PlanPro, result.Plan)
}

func TestDowngradeIsIdempotent(t *testing.T) {
	m, tenant := newTestManager(t)
	ctx := context.Background()

	result, err := m.Downgrade(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyFree, result.Status)
	assert.Equal(t, models.PlanFree, result.Plan)

	_, err = m.Upgrade(ctx, tenant)
	require.NoError(t, err)

	result, err = m.Downgrade(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, StatusDowngraded, result.Status)
	assert.Equal(t, models.PlanFree, result.Plan)
}

func TestUpgradePersists(t *testing.T) {
	store := storetest.New()
	ctx := context.Background()

	tenant := &models.Tenant{Name: "Acme", Slug: "acme", Plan: models.PlanFree}
	require.NoError(t, store.CreateTenant(ctx, tenant))

	m := NewManager(store)
	_, err := m.Upgrade(ctx, tenant)
	require.NoError(t, err)

	stored, err := store.GetTenant(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, stored.Plan)
}
