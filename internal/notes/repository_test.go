package notes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notes-saas/notes-server/internal/models"
	"github.com/notes-saas/notes-server/internal/storage"
	"github.com/notes-saas/notes-server/internal/storage/storetest"
)

func newTestRepo(t *testing.T) (*Repository, *storetest.Store, *models.Tenant, *models.Tenant) {
	t.Helper()

	store := storetest.New()
	ctx := context.Background()

	acme := &models.Tenant{Name: "Acme", Slug: "acme", Plan: models.PlanFree}
	require.NoError(t, store.CreateTenant(ctx, acme))

	globex := &models.Tenant{Name: "Globex", Slug: "globex", Plan: models.PlanFree}
	require.NoError(t, store.CreateTenant(ctx, globex))

	return NewRepository(store, 0), store, acme, globex
}

func TestCreateRequiresTitle(t *testing.T) {
	repo, _, acme, _ := newTestRepo(t)

	_, err := repo.Create(context.Background(), acme, uuid.New(), "", "body")
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestCreateSetsFields(t *testing.T) {
	repo, _, acme, _ := newTestRepo(t)
	author := uuid.New()

	note, err := repo.Create(context.Background(), acme, author, "T1", "hello")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, note.ID)
	assert.Equal(t, acme.ID, note.TenantID)
	assert.Equal(t, author, note.AuthorID)
	assert.Equal(t, "T1", note.Title)
	assert.Equal(t, "hello", note.Content)
	assert.False(t, note.CreatedAt.IsZero())
}

func TestFreePlanQuota(t *testing.T) {
	repo, _, acme, _ := newTestRepo(t)
	ctx := context.Background()
	author := uuid.New()

	for i := 0; i < DefaultFreeNoteLimit; i++ {
		_, err := repo.Create(ctx, acme, author, "note", "")
		require.NoError(t, err)
	}

	_, err := repo.Create(ctx, acme, author, "one too many", "")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// Upgrading lifts the cap; the same create succeeds.
	acme.Plan = models.PlanPro
	_, err = repo.Create(ctx, acme, author, "one too many", "")
	assert.NoError(t, err)
}

func TestProPlanUnlimited(t *testing.T) {
	repo, _, acme, _ := newTestRepo(t)
	ctx := context.Background()
	acme.Plan = models.PlanPro

	for i := 0; i < DefaultFreeNoteLimit*3; i++ {
		_, err := repo.Create(ctx, acme, uuid.New(), "note", "")
		require.NoError(t, err)
	}
}

func TestQuotaIsPerTenant(t *testing.T) {
	repo, _, acme, globex := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < DefaultFreeNoteLimit; i++ {
		_, err := repo.Create(ctx, acme, uuid.New(), "note", "")
		require.NoError(t, err)
	}

	// Acme being full must not affect Globex.
	_, err := repo.Create(ctx, globex, uuid.New(), "note", "")
	assert.NoError(t, err)
}

func TestListNewestFirstAndTenantScoped(t *testing.T) {
	repo, _, acme, globex := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, acme, uuid.New(), "first", "")
	require.NoError(t, err)
	second, err := repo.Create(ctx, acme, uuid.New(), "second", "")
	require.NoError(t, err)

	foreign, err := repo.Create(ctx, globex, uuid.New(), "other tenant", "")
	require.NoError(t, err)

	list, err := repo.List(ctx, acme)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	for _, n := range list {
		assert.Equal(t, acme.ID, n.TenantID)
		assert.NotEqual(t, foreign.ID, n.ID)
	}
}

func TestGetCrossTenantIsNotFound(t *testing.T) {
	repo, _, acme, globex := newTestRepo(t)
	ctx := context.Background()

	note, err := repo.Create(ctx, globex, uuid.New(), "secret", "")
	require.NoError(t, err)

	_, err = repo.Get(ctx, acme, note.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Visible within its own tenant.
	got, err := repo.Get(ctx, globex, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, got.ID)
}

func TestUpdatePartial(t *testing.T) {
	repo, _, acme, _ := newTestRepo(t)
	ctx := context.Background()

	note, err := repo.Create(ctx, acme, uuid.New(), "T1", "original content")
	require.NoError(t, err)

	title := "X"
	updated, err := repo.Update(ctx, acme, note.ID, models.NoteUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, "original content", updated.Content)

	got, err := repo.Get(ctx, acme, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "X", got.Title)
	assert.Equal(t, "original content", got.Content)

	content := "new content"
	updated, err = repo.Update(ctx, acme, note.ID, models.NoteUpdate{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "X", updated.Title)
	assert.Equal(t, "new content", updated.Content)
}

func TestUpdateCrossTenantIsNotFound(t *testing.T) {
	repo, _, acme, globex := newTestRepo(t)
	ctx := context.Background()

	note, err := repo.Create(ctx, globex, uuid.New(), "secret", "")
	require.NoError(t, err)

	title := "stolen"
	_, err = repo.Update(ctx, acme, note.ID, models.NoteUpdate{Title: &title})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo, _, acme, globex := newTestRepo(t)
	ctx := context.Background()

	note, err := repo.Create(ctx, acme, uuid.New(), "doomed", "")
	require.NoError(t, err)

	// Cross-tenant delete must not touch the note.
	assert.ErrorIs(t, repo.Delete(ctx, globex, note.ID), storage.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, acme, note.ID))
	_, err = repo.Get(ctx, acme, note.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, acme, note.ID), storage.ErrNotFound)
}
