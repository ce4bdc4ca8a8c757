package events

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

func TestRecordPersistsEvent(t *testing.T) {
	store := storetest.New()
	ctx := context.Background()

	tenant := &models.Tenant{Name: "Acme", Slug: "acme"}
	require.NoError(t, store.CreateTenant(ctx, tenant))

	actor := uuid.New()
	r := NewRecorder(store, nil)
	r.Record(ctx, tenant, actor, models.EventTypeNoteCreated, "Note created",
		models.Variables{"title": "T1"})

	events, total, err := store.ListEventLogs(ctx, storage.EventLogFilters{TenantID: &tenant.ID}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, events, 1)

	event := events[0]
	assert.Equal(t, models.EventTypeNoteCreated, event.Type)
	assert.Equal(t, models.EventLevelInfo, event.Level)
	assert.Equal(t, "Note created", event.Description)
	require.NotNil(t, event.ActorID)
	assert.Equal(t, actor, *event.ActorID)
	assert.Equal(t, "T1", event.Details["title"])
}

func TestRecordWithoutTenant(t *testing.T) {
	store := storetest.New()
	ctx := context.Background()

	r := NewRecorder(store, nil)
	r.Record(ctx, nil, uuid.Nil, models.EventTypeLogin, "User logged in", nil)

	events, _, err := store.ListEventLogs(ctx, storage.EventLogFilters{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].TenantID)
	assert.Nil(t, events[0].ActorID)
}
