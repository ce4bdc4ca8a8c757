package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/notes-saas/notes-server/internal/models"
	"github.com/notes-saas/notes-server/pkg/crypto"
)

// Shared demo credential for seeded and invited accounts.
const DemoPassword = "password"

// EnsureDefaultData provisions the demo tenants and users if and only
// if no users exist yet. Every insert tolerates a duplicate key, so the
// function is idempotent and safe to run concurrently with the first
// requests or from multiple process instances.
func EnsureDefaultData(ctx context.Context, s Store) error {
	count, err := s.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	acme, err := ensureTenant(ctx, s, "Acme", "acme")
	if err != nil {
		return err
	}

	globex, err := ensureTenant(ctx, s, "Globex", "globex")
	if err != nil {
		return err
	}

	hash, err := crypto.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	users := []*models.User{
		{Email: "admin@acme.test", PasswordHash: hash, Role: models.RoleAdmin, TenantID: acme.ID},
		{Email: "user@acme.test", PasswordHash: hash, Role: models.RoleMember, TenantID: acme.ID},
		{Email: "admin@globex.test", PasswordHash: hash, Role: models.RoleAdmin, TenantID: globex.ID},
		{Email: "user@globex.test", PasswordHash: hash, Role: models.RoleMember, TenantID: globex.ID},
	}

	for _, u := range users {
		if err := s.CreateUser(ctx, u); err != nil {
			if errors.Is(err, ErrDuplicateKey) {
				continue
			}
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	log.Info().Msg("Default tenants and users ensured")
	return nil
}

// ensureTenant returns the tenant with the given slug, creating it when
// absent. A concurrent create racing us surfaces as a duplicate key, in
// which case the existing row wins.
func ensureTenant(ctx context.Context, s Store, name, slug string) (*models.Tenant, error) {
	tenant, err := s.GetTenantBySlug(ctx, slug)
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get tenant %s: %w", slug, err)
	}

	tenant = &models.Tenant{Name: name, Slug: slug, Plan: models.PlanFree}
	if err := s.CreateTenant(ctx, tenant); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return s.GetTenantBySlug(ctx, slug)
		}
		return nil, fmt.Errorf("create tenant %s: %w", slug, err)
	}

	return tenant, nil
}

// ResetAndSeed wipes all data and reseeds the demo fixtures. Used by
// the -seed flag only; never runs as part of normal startup.
func (s *PostgresStore) ResetAndSeed(ctx context.Context) error {
	for _, table := range []string{"event_logs", "notes", "users", "tenants"} {
		if _, err := s.getDB().ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}

	return EnsureDefaultData(ctx, s)
}
