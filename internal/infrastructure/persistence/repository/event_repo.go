package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/faisalr/propdesk/internal/application/port"
	"github.com/faisalr/propdesk/internal/domain/entity"
	"go.uber.org/zap"
)

// EventRepository implements port.EventRepository on sqlite. Events are
// append-only; there is no update or delete path.
type EventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB, logger *zap.Logger) port.EventRepository {
	return &EventRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends one lifecycle event
func (r *EventRepository) Create(ctx context.Context, event *entity.ChequeEvent) error {
	query := `
		INSERT INTO cheque_events (
			cheque_id, action, from_status, to_status, actor, note, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		event.ChequeID,
		event.Action,
		nullString(event.FromStatus),
		event.ToStatus,
		event.Actor,
		nullString(event.Note),
		event.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create cheque event", zap.Error(err),
			zap.Int64("cheque_id", event.ChequeID),
			zap.String("action", event.Action))
		return fmt.Errorf("failed to create cheque event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	event.ID = id
	return nil
}

// ListByCheque retrieves the full event trail of a cheque, oldest first
func (r *EventRepository) ListByCheque(ctx context.Context, chequeID int64) ([]*entity.ChequeEvent, error) {
	query := `
		SELECT id, cheque_id, action, from_status, to_status, actor, note, created_at
		FROM cheque_events
		WHERE cheque_id = ?
		ORDER BY created_at, id
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, chequeID)
	if err != nil {
		r.logger.Error("Failed to list cheque events", zap.Int64("cheque_id", chequeID), zap.Error(err))
		return nil, fmt.Errorf("failed to list cheque events: %w", err)
	}
	defer rows.Close()

	var events []*entity.ChequeEvent
	for rows.Next() {
		var event entity.ChequeEvent
		var fromStatus, note sql.NullString
		if err := rows.Scan(
			&event.ID,
			&event.ChequeID,
			&event.Action,
			&fromStatus,
			&event.ToStatus,
			&event.Actor,
			&note,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cheque event: %w", err)
		}
		event.FromStatus = fromStatus.String
		event.Note = note.String
		events = append(events, &event)
	}
	return events, rows.Err()
}

// Verify interface compliance
var _ port.EventRepository = (*EventRepository)(nil)
