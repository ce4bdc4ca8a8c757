package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notes-saas/notes-server/internal/models"
)

// CreateUser creates a new user
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Email = strings.ToLower(user.Email)

	query := `
		INSERT INTO users (
			id, created_at, updated_at, email, password_hash, role, tenant_id, last_login_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)`

	_, err := s.getDB().ExecContext(ctx, query,
		user.ID, user.CreatedAt, user.UpdatedAt, user.Email,
		user.PasswordHash, user.Role, user.TenantID, user.LastLoginAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateKey
		}
		return err
	}

	return nil
}

// GetUser gets a user by ID
func (s *PostgresStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, created_at, updated_at, email, password_hash, role, tenant_id, last_login_at
		FROM users
		WHERE id = $1`

	user := &models.User{}
	err := s.getDB().QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Email,
		&user.PasswordHash, &user.Role, &user.TenantID, &user.LastLoginAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	return user, err
}

// GetUserByEmail gets a user by email
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, created_at, updated_at, email, password_hash, role, tenant_id, last_login_at
		FROM users
		WHERE email = $1`

	user := &models.User{}
	err := s.getDB().QueryRowContext(ctx, query, strings.ToLower(email)).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Email,
		&user.PasswordHash, &user.Role, &user.TenantID, &user.LastLoginAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	return user, err
}

// UpdateUser updates a user. The tenant assignment is immutable and is
// deliberately absent from the SET list.
func (s *PostgresStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users SET
			updated_at = $2, email = $3, password_hash = $4, role = $5, last_login_at = $6
		WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		user.ID, user.UpdatedAt, strings.ToLower(user.Email),
		user.PasswordHash, user.Role, user.LastLoginAt,
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

// ListUsers lists users of a tenant
func (s *PostgresStore) ListUsers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, int64, error) {
	var total int64
	err := s.getDB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE tenant_id = $1", tenantID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, created_at, updated_at, email, password_hash, role, tenant_id, last_login_at
		FROM users
		WHERE tenant_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3`

	rows, err := s.getDB().QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Email,
			&user.PasswordHash, &user.Role, &user.TenantID, &user.LastLoginAt,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}

	return users, total, rows.Err()
}

// CountUsers counts all users across tenants
func (s *PostgresStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.getDB().QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
