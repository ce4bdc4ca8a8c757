package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/notes-saas/notes-server/internal/models"
)

// CreateNote creates a new note
func (s *PostgresStore) CreateNote(ctx context.Context, note *models.Note) error {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}

	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now

	query := `
		INSERT INTO notes (id, created_at, updated_at, tenant_id, author_id, title, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.getDB().ExecContext(ctx, query,
		note.ID, note.CreatedAt, note.UpdatedAt,
		note.TenantID, note.AuthorID, note.Title, note.Content,
	)

	return err
}

// GetNote gets a note by id within a tenant. An id that exists under a
// different tenant is reported as ErrNotFound.
func (s *PostgresStore) GetNote(ctx context.Context, tenantID, id uuid.UUID) (*models.Note, error) {
	query := `
		SELECT id, created_at, updated_at, tenant_id, author_id, title, content
		FROM notes
		WHERE tenant_id = $1 AND id = $2`

	note := &models.Note{}
	err := s.getDB().QueryRowContext(ctx, query, tenantID, id).Scan(
		&note.ID, &note.CreatedAt, &note.UpdatedAt,
		&note.TenantID, &note.AuthorID, &note.Title, &note.Content,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	return note, err
}

// UpdateNote updates a note, scoped by its tenant
func (s *PostgresStore) UpdateNote(ctx context.Context, note *models.Note) error {
	note.UpdatedAt = time.Now()

	query := `
		UPDATE notes SET
			updated_at = $3, title = $4, content = $5
		WHERE tenant_id = $1 AND id = $2`

	result, err := s.getDB().ExecContext(ctx, query,
		note.TenantID, note.ID, note.UpdatedAt, note.Title, note.Content,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteNote deletes a note within a tenant
func (s *PostgresStore) DeleteNote(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx,
		"DELETE FROM notes WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListNotes lists a tenant's notes, newest first
func (s *PostgresStore) ListNotes(ctx context.Context, tenantID uuid.UUID) ([]*models.Note, error) {
	query := `
		SELECT id, created_at, updated_at, tenant_id, author_id, title, content
		FROM notes
		WHERE tenant_id = $1
		ORDER BY created_at DESC`

	rows, err := s.getDB().QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]*models.Note, 0)
	for rows.Next() {
		note := &models.Note{}
		if err := rows.Scan(
			&note.ID, &note.CreatedAt, &note.UpdatedAt,
			&note.TenantID, &note.AuthorID, &note.Title, &note.Content,
		); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	return notes, rows.Err()
}

// CountNotes counts a tenant's notes
func (s *PostgresStore) CountNotes(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := s.getDB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notes WHERE tenant_id = $1", tenantID).Scan(&count)
	return count, err
}
