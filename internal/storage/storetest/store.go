// Package storetest provides an in-memory Store implementation for tests.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notes-saas/notes-server/internal/models"
	"github.com/notes-saas/notes-server/internal/storage"
)

// Store is an in-memory storage.Store. Transactions are no-ops: every
// write is applied immediately, which is enough for exercising the
// repository and handler logic.
type Store struct {
	mu sync.Mutex

	users   map[uuid.UUID]*models.User
	tenants map[uuid.UUID]*models.Tenant
	notes   map[uuid.UUID]*models.Note
	events  []*models.EventLog

	seq     int64
	noteSeq map[uuid.UUID]int64
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		users:   make(map[uuid.UUID]*models.User),
		tenants: make(map[uuid.UUID]*models.Tenant),
		notes:   make(map[uuid.UUID]*models.Note),
		noteSeq: make(map[uuid.UUID]int64),
	}
}

// BeginTx returns the store itself; writes are applied immediately
func (s *Store) BeginTx(ctx context.Context) (storage.Store, error) { return s, nil }

// Commit is a no-op
func (s *Store) Commit() error { return nil }

// Rollback is a no-op
func (s *Store) Rollback() error { return nil }

// Close is a no-op
func (s *Store) Close() error { return nil }

// ========== User methods ==========

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, u := range s.users {
		if u.Email == email {
			return storage.ErrDuplicateKey
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Email = email

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return storage.ErrNotFound
	}

	user.UpdatedAt = time.Now()
	user.TenantID = existing.TenantID
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *Store) ListUsers(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*models.User, 0)
	for _, u := range s.users {
		if u.TenantID == tenantID {
			clone := *u
			users = append(users, &clone)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })

	total := int64(len(users))
	users = page(users, limit, offset)
	return users, total, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

// ========== Tenant methods ==========

func (s *Store) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tenants {
		if t.Slug == tenant.Slug {
			return storage.ErrDuplicateKey
		}
	}

	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	if tenant.Plan == "" {
		tenant.Plan = models.PlanFree
	}
	now := time.Now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	clone := *tenant
	s.tenants[tenant.ID] = &clone
	return nil
}

func (s *Store) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, ok := s.tenants[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *tenant
	return &clone, nil
}

func (s *Store) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tenants {
		if t.Slug == slug {
			clone := *t
			return &clone, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tenants[tenant.ID]; !ok {
		return storage.ErrNotFound
	}

	tenant.UpdatedAt = time.Now()
	clone := *tenant
	s.tenants[tenant.ID] = &clone
	return nil
}

func (s *Store) ListTenants(ctx context.Context, limit, offset int) ([]*models.Tenant, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenants := make([]*models.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		clone := *t
		tenants = append(tenants, &clone)
	}
	sort.Slice(tenants, func(i, j int) bool { return tenants[i].CreatedAt.Before(tenants[j].CreatedAt) })

	total := int64(len(tenants))
	tenants = page(tenants, limit, offset)
	return tenants, total, nil
}

// ========== Note methods ==========

func (s *Store) CreateNote(ctx context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now

	s.seq++
	s.noteSeq[note.ID] = s.seq

	clone := *note
	s.notes[note.ID] = &clone
	return nil
}

func (s *Store) GetNote(ctx context.Context, tenantID, id uuid.UUID) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok || note.TenantID != tenantID {
		return nil, storage.ErrNotFound
	}
	clone := *note
	return &clone, nil
}

func (s *Store) UpdateNote(ctx context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.notes[note.ID]
	if !ok || existing.TenantID != note.TenantID {
		return storage.ErrNotFound
	}

	note.UpdatedAt = time.Now()
	note.CreatedAt = existing.CreatedAt
	clone := *note
	s.notes[note.ID] = &clone
	return nil
}

func (s *Store) DeleteNote(ctx context.Context, tenantID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok || note.TenantID != tenantID {
		return storage.ErrNotFound
	}
	delete(s.notes, id)
	delete(s.noteSeq, id)
	return nil
}

func (s *Store) ListNotes(ctx context.Context, tenantID uuid.UUID) ([]*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := make([]*models.Note, 0)
	for _, n := range s.notes {
		if n.TenantID == tenantID {
			clone := *n
			notes = append(notes, &clone)
		}
	}
	// Newest first; insertion order breaks creation-time ties.
	sort.Slice(notes, func(i, j int) bool {
		return s.noteSeq[notes[i].ID] > s.noteSeq[notes[j].ID]
	})
	return notes, nil
}

func (s *Store) CountNotes(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, n := range s.notes {
		if n.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

// ========== Event log methods ==========

func (s *Store) CreateEventLog(ctx context.Context, event *models.EventLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if event.Level == "" {
		event.Level = models.EventLevelInfo
	}

	clone := *event
	s.events = append(s.events, &clone)
	return nil
}

func (s *Store) ListEventLogs(ctx context.Context, filters storage.EventLogFilters, limit, offset int) ([]*models.EventLog, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]*models.EventLog, 0)
	for _, e := range s.events {
		if filters.TenantID != nil && (e.TenantID == nil || *e.TenantID != *filters.TenantID) {
			continue
		}
		if filters.ActorID != nil && (e.ActorID == nil || *e.ActorID != *filters.ActorID) {
			continue
		}
		if filters.Type != nil && e.Type != *filters.Type {
			continue
		}
		if filters.Level != nil && e.Level != *filters.Level {
			continue
		}
		if filters.StartTime != nil && e.CreatedAt.Before(*filters.StartTime) {
			continue
		}
		if filters.EndTime != nil && e.CreatedAt.After(*filters.EndTime) {
			continue
		}
		clone := *e
		events = append(events, &clone)
	}

	// Newest first, matching the SQL implementation.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}

	total := int64(len(events))
	events = page(events, limit, offset)
	return events, total, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
