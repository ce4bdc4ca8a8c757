package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notes-saas/notes-server/internal/models"
)

// CreateEventLog creates an audit log entry
func (s *PostgresStore) CreateEventLog(ctx context.Context, event *models.EventLog) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if event.Level == "" {
		event.Level = models.EventLevelInfo
	}

	query := `
		INSERT INTO event_logs (id, created_at, tenant_id, actor_id, type, level, description, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.getDB().ExecContext(ctx, query,
		event.ID, event.CreatedAt, event.TenantID, event.ActorID,
		event.Type, event.Level, event.Description, event.Details,
	)

	return err
}

// ListEventLogs lists audit log entries matching the filters, newest first
func (s *PostgresStore) ListEventLogs(ctx context.Context, filters EventLogFilters, limit, offset int) ([]*models.EventLog, int64, error) {
	where := make([]string, 0)
	args := make([]interface{}, 0)

	addFilter := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filters.TenantID != nil {
		addFilter("tenant_id = $%d", *filters.TenantID)
	}
	if filters.ActorID != nil {
		addFilter("actor_id = $%d", *filters.ActorID)
	}
	if filters.Type != nil {
		addFilter("type = $%d", *filters.Type)
	}
	if filters.Level != nil {
		addFilter("level = $%d", *filters.Level)
	}
	if filters.StartTime != nil {
		addFilter("created_at >= $%d", *filters.StartTime)
	}
	if filters.EndTime != nil {
		addFilter("created_at <= $%d", *filters.EndTime)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM event_logs %s", whereClause)
	if err := s.getDB().QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, created_at, tenant_id, actor_id, type, level, description, details
		FROM event_logs
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*models.EventLog, 0)
	for rows.Next() {
		event := &models.EventLog{}
		if err := rows.Scan(
			&event.ID, &event.CreatedAt, &event.TenantID, &event.ActorID,
			&event.Type, &event.Level, &event.Description, &event.Details,
		); err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}

	return events, total, rows.Err()
}
