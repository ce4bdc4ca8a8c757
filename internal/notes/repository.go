// Package notes implements the quota-enforced note repository. All
// operations are scoped to a tenant; the free plan caps the number of
// notes a tenant may hold at creation time.
package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/notes-saas/notes-server/internal/models"
	"github.com/notes-saas/notes-server/internal/storage"
)

// DefaultFreeNoteLimit is the free-plan note cap
const DefaultFreeNoteLimit = 3

// Repository errors
var (
	// ErrTitleRequired rejects a create with an empty title.
	ErrTitleRequired = errors.New("title required")

	// ErrQuotaExceeded signals that the tenant's free-plan note cap is
	// reached. Callers must surface it distinctly from validation
	// failures so clients can offer an upgrade path.
	ErrQuotaExceeded = errors.New("note limit reached")
)

// Repository provides tenant-scoped note CRUD with plan enforcement
type Repository struct {
	store     storage.Store
	freeLimit int64
}

// NewRepository creates a note repository. A non-positive limit falls
// back to DefaultFreeNoteLimit.
func NewRepository(store storage.Store, freeLimit int) *Repository {
	if freeLimit <= 0 {
		freeLimit = DefaultFreeNoteLimit
	}
	return &Repository{
		store:     store,
		freeLimit: int64(freeLimit),
	}
}

// Create validates and persists a new note. On the free plan the
// tenant's current note count is checked against the cap first; count
// and insert share one transaction, which narrows but does not close
// the window between two concurrent creates observing the same count.
// That residual race is accepted; the cap is a billing boundary, not a
// consistency invariant.
func (r *Repository) Create(ctx context.Context, tenant *models.Tenant, authorID uuid.UUID, title, content string) (*models.Note, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}

	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if tenant.Plan == models.PlanFree {
		count, err := tx.CountNotes(ctx, tenant.ID)
		if err != nil {
			return nil, fmt.Errorf("count notes: %w", err)
		}
		if count >= r.freeLimit {
			return nil, ErrQuotaExceeded
		}
	}

	note := &models.Note{
		TenantID: tenant.ID,
		AuthorID: authorID,
		Title:    title,
		Content:  content,
	}

	if err := tx.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return note, nil
}

// List returns the tenant's notes, newest first
func (r *Repository) List(ctx context.Context, tenant *models.Tenant) ([]*models.Note, error) {
	return r.store.ListNotes(ctx, tenant.ID)
}

// Get returns a note by id within the tenant. A valid id belonging to
// another tenant yields storage.ErrNotFound, never a permission error.
func (r *Repository) Get(ctx context.Context, tenant *models.Tenant, id uuid.UUID) (*models.Note, error) {
	return r.store.GetNote(ctx, tenant.ID, id)
}

// Update applies a partial update to a note within the tenant. Only
// non-nil fields of upd change.
func (r *Repository) Update(ctx context.Context, tenant *models.Tenant, id uuid.UUID, upd models.NoteUpdate) (*models.Note, error) {
	note, err := r.store.GetNote(ctx, tenant.ID, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		note.Title = *upd.Title
	}
	if upd.Content != nil {
		note.Content = *upd.Content
	}

	if err := r.store.UpdateNote(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// Delete removes a note within the tenant
func (r *Repository) Delete(ctx context.Context, tenant *models.Tenant, id uuid.UUID) error {
	return r.store.DeleteNote(ctx, tenant.ID, id)
}
