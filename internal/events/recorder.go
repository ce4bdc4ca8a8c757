// Package events records audit events. Entries are persisted to the
// store and, when a NATS connection is configured, published as JSON so
// external consumers can follow tenant activity.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/notes-saas/notes-server/internal/models"
	"github.com/notes-saas/notes-server/internal/storage"
)

// Recorder persists and publishes audit events
type Recorder struct {
	store storage.Store
	nc    *nats.Conn
}

// NewRecorder creates a recorder. nc may be nil, in which case events
// are only persisted.
func NewRecorder(store storage.Store, nc *nats.Conn) *Recorder {
	return &Recorder{
		store: store,
		nc:    nc,
	}
}

// Record writes an audit event. Failures are logged and swallowed; the
// audit trail never fails the request that produced it.
func (r *Recorder) Record(ctx context.Context, tenant *models.Tenant, actorID uuid.UUID, eventType models.EventType, description string, details models.Variables) {
	event := &models.EventLog{
		Type:        eventType,
		Level:       models.EventLevelInfo,
		Description: description,
		Details:     details,
	}
	if tenant != nil {
		tenantID := tenant.ID
		event.TenantID = &tenantID
	}
	if actorID != uuid.Nil {
		actor := actorID
		event.ActorID = &actor
	}

	if err := r.store.CreateEventLog(ctx, event); err != nil {
		log.Error().Err(err).Str("type", string(eventType)).Msg("Failed to persist audit event")
		return
	}

	if r.nc == nil || tenant == nil {
		return
	}

	subject := fmt.Sprintf("notes.tenant.%s.%s", tenant.Slug, strings.ToLower(string(eventType)))
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal audit event")
		return
	}

	if err := r.nc.Publish(subject, payload); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("Failed to publish audit event")
	}
}
