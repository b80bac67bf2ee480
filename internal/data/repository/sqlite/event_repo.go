package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"event-checkin/internal/data/entity"
	"event-checkin/internal/data/repository"
	"event-checkin/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type eventRepository struct {
	db  database.SQLIface
	log *zap.Logger
}

func NewEventRepository(db database.SQLIface, log *zap.Logger) repository.EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event"), zap.String("driver", "sqlite")),
	}
}

const eventColumns = `id, title, description, venue, scheduled_at, max_participants, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (id, title, description, venue, scheduled_at,
		                    max_participants, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID.String(),
		event.Title,
		event.Description,
		event.Venue,
		toMillis(event.ScheduledAt),
		toNullInt(event.MaxParticipants),
		toMillis(event.CreatedAt),
		toMillis(event.UpdatedAt),
	)
	if err != nil {
		r.log.Error("Failed to create event", zap.Error(err), zap.String("title", event.Title))
		return fmt.Errorf("create event %s: %w", event.Title, err)
	}

	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	event, err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find event by ID", zap.Error(err), zap.String("event_id", id.String()))
		return nil, fmt.Errorf("find event by ID %s: %w", id.String(), err)
	}

	return event, nil
}

// FindByIDForUpdate relies on the single-connection transaction for exclusion.
func (r *eventRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	return r.FindByID(ctx, id)
}

func (r *eventRepository) FindAll(ctx context.Context) ([]*entity.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY seq ASC`)
	if err != nil {
		r.log.Error("Failed to get all events", zap.Error(err))
		return nil, fmt.Errorf("find all events: %w", err)
	}
	defer rows.Close()

	events := make([]*entity.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			r.log.Error("Failed to scan event row", zap.Error(err))
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events rows: %w", err)
	}

	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = ?, description = ?, venue = ?, scheduled_at = ?,
		    max_participants = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.Venue,
		toMillis(event.ScheduledAt),
		toNullInt(event.MaxParticipants),
		toMillis(event.UpdatedAt),
		event.ID.String(),
	)
	if err != nil {
		r.log.Error("Failed to update event", zap.Error(err), zap.String("event_id", event.ID.String()))
		return fmt.Errorf("update event %s: %w", event.ID.String(), err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("event %s not found", event.ID.String())
	}

	return nil
}

func scanEvent(row scanner) (*entity.Event, error) {
	var (
		event                             entity.Event
		id                                string
		scheduledAt, createdAt, updatedAt int64
		maxParticipants                   sql.NullInt64
	)
	err := row.Scan(
		&id,
		&event.Title,
		&event.Description,
		&event.Venue,
		&scheduledAt,
		&maxParticipants,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse event id %q: %w", id, err)
	}
	event.ID = parsed
	event.ScheduledAt = fromMillis(scheduledAt)
	event.MaxParticipants = fromNullInt(maxParticipants)
	event.CreatedAt = fromMillis(createdAt)
	event.UpdatedAt = fromMillis(updatedAt)
	return &event, nil
}
