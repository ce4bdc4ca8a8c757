package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/notes-saas/notes-server/internal/models"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidData  = errors.New("invalid data")
)

// Store defines the storage interface. Every note method takes the
// owning tenant's ID; a note is never visible or mutable outside its
// tenant, and a scoped miss is reported as ErrNotFound regardless of
// whether the id exists under another tenant.
type Store interface {
	// Transaction support
	BeginTx(ctx context.Context) (Store, error)
	Commit() error
	Rollback() error

	// User methods
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, int64, error)
	CountUsers(ctx context.Context) (int64, error)

	// Tenant methods
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	UpdateTenant(ctx context.Context, tenant *models.Tenant) error
	ListTenants(ctx context.Context, limit, offset int) ([]*models.Tenant, int64, error)

	// Note methods
	CreateNote(ctx context.Context, note *models.Note) error
	GetNote(ctx context.Context, tenantID, id uuid.UUID) (*models.Note, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, tenantID, id uuid.UUID) error
	ListNotes(ctx context.Context, tenantID uuid.UUID) ([]*models.Note, error)
	CountNotes(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// Event log methods
	CreateEventLog(ctx context.Context, event *models.EventLog) error
	ListEventLogs(ctx context.Context, filters EventLogFilters, limit, offset int) ([]*models.EventLog, int64, error)

	// Close the store
	Close() error
}

// EventLogFilters represents filters for event logs
type EventLogFilters struct {
	TenantID  *uuid.UUID
	ActorID   *uuid.UUID
	Type      *models.EventType
	Level     *models.EventLevel
	StartTime *time.Time
	EndTime   *time.Time
}
