package storage

import (
	"context"
	"fmt"
)

// schema holds the DDL for all collections. Statements are idempotent
// so Migrate can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		plan TEXT NOT NULL DEFAULT 'free'
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		tenant_id UUID NOT NULL REFERENCES tenants (id),
		last_login_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		tenant_id UUID NOT NULL REFERENCES tenants (id),
		author_id UUID NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS notes_tenant_created_idx ON notes (tenant_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS event_logs (
		id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		tenant_id UUID,
		actor_id UUID,
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		details JSONB
	)`,
	`CREATE INDEX IF NOT EXISTS event_logs_tenant_idx ON event_logs (tenant_id, created_at DESC)`,
}

// Migrate creates the schema if it does not exist yet
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.getDB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
