package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notes-saas/notes-server/internal/models"
)

// CreateTenant creates a new tenant
func (s *PostgresStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	if tenant.Plan == "" {
		tenant.Plan = models.PlanFree
	}

	now := time.Now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	query := `
		INSERT INTO tenants (id, created_at, updated_at, name, slug, plan)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.getDB().ExecContext(ctx, query,
		tenant.ID, tenant.CreatedAt, tenant.UpdatedAt,
		tenant.Name, tenant.Slug, tenant.Plan,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateKey
		}
		return err
	}

	return nil
}

// GetTenant gets a tenant by ID
func (s *PostgresStore) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `
		SELECT id, created_at, updated_at, name, slug, plan
		FROM tenants
		WHERE id = $1`

	tenant := &models.Tenant{}
	err := s.getDB().QueryRowContext(ctx, query, id).Scan(
		&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt,
		&tenant.Name, &tenant.Slug, &tenant.Plan,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	return tenant, err
}

// GetTenantBySlug gets a tenant by slug
func (s *PostgresStore) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	query := `
		SELECT id, created_at, updated_at, name, slug, plan
		FROM tenants
		WHERE slug = $1`

	tenant := &models.Tenant{}
	err := s.getDB().QueryRowContext(ctx, query, slug).Scan(
		&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt,
		&tenant.Name, &tenant.Slug, &tenant.Plan,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	return tenant, err
}

// UpdateTenant updates a tenant
func (s *PostgresStore) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	tenant.UpdatedAt = time.Now()

	query := `
		UPDATE tenants SET
			updated_at = $2, name = $3, slug = $4, plan = $5
		WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		tenant.ID, tenant.UpdatedAt, tenant.Name, tenant.Slug, tenant.Plan,
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

// ListTenants lists tenants
func (s *PostgresStore) ListTenants(ctx context.Context, limit, offset int) ([]*models.Tenant, int64, error) {
	var total int64
	err := s.getDB().QueryRowContext(ctx, "SELECT COUNT(*) FROM tenants").Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, created_at, updated_at, name, slug, plan
		FROM tenants
		ORDER BY created_at
		LIMIT $1 OFFSET $2`

	rows, err := s.getDB().QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tenants := make([]*models.Tenant, 0)
	for rows.Next() {
		tenant := &models.Tenant{}
		if err := rows.Scan(
			&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt,
			&tenant.Name, &tenant.Slug, &tenant.Plan,
		); err != nil {
			return nil, 0, err
		}
		tenants = append(tenants, tenant)
	}

	return tenants, total, rows.Err()
}
