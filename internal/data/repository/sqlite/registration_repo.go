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

type registrationRepository struct {
	db  database.SQLIface
	log *zap.Logger
}

func NewRegistrationRepository(db database.SQLIface, log *zap.Logger) repository.RegistrationRepository {
	return &registrationRepository{
		db:  db,
		log: log.With(zap.String("repository", "registration"), zap.String("driver", "sqlite")),
	}
}

const registrationColumns = `id, event_id, name, email, college_id, checked_in, checked_out,
       check_in_time, check_out_time, created_at`

func (r *registrationRepository) Create(ctx context.Context, reg *entity.Registration) error {
	query := `
		INSERT INTO registrations (id, event_id, name, email, college_id,
		                           checked_in, checked_out, check_in_time, check_out_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		reg.ID.String(),
		reg.EventID.String(),
		reg.Name,
		reg.Email,
		reg.CollegeID,
		reg.CheckedIn,
		reg.CheckedOut,
		toNullMillis(reg.CheckInTime),
		toNullMillis(reg.CheckOutTime),
		toMillis(reg.CreatedAt),
	)
	if err != nil {
		r.log.Error("Failed to create registration",
			zap.Error(err),
			zap.String("event_id", reg.EventID.String()),
			zap.String("email", reg.Email),
		)
		return fmt.Errorf("create registration for %s: %w", reg.Email, err)
	}

	return nil
}

func (r *registrationRepository) FindByID(ctx context.Context, eventID, id uuid.UUID) (*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = ? AND id = ?`
	return r.findOne(ctx, query, eventID.String(), id.String())
}

// FindByIDForUpdate relies on the single-connection transaction for exclusion.
func (r *registrationRepository) FindByIDForUpdate(ctx context.Context, eventID, id uuid.UUID) (*entity.Registration, error) {
	return r.FindByID(ctx, eventID, id)
}

func (r *registrationRepository) FindByEmail(ctx context.Context, eventID uuid.UUID, email string) (*entity.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = ? AND email = ?
		ORDER BY seq ASC
		LIMIT 1
	`
	return r.findOne(ctx, query, eventID.String(), email)
}

func (r *registrationRepository) findOne(ctx context.Context, query string, args ...any) (*entity.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find registration", zap.Error(err), zap.Any("args", args))
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return reg, nil
}

func (r *registrationRepository) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = ? ORDER BY seq ASC`
	return r.findMany(ctx, query, eventID.String())
}

func (r *registrationRepository) FindAll(ctx context.Context) ([]*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations ORDER BY seq ASC`
	return r.findMany(ctx, query)
}

func (r *registrationRepository) findMany(ctx context.Context, query string, args ...any) ([]*entity.Registration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query registrations", zap.Error(err))
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	defer rows.Close()

	regs := make([]*entity.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			r.log.Error("Failed to scan registration row", zap.Error(err))
			return nil, fmt.Errorf("scan registration row: %w", err)
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registration rows: %w", err)
	}

	return regs, nil
}

func (r *registrationRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations WHERE event_id = ?`, eventID.String()).Scan(&count)
	if err != nil {
		r.log.Error("Database error counting registrations", zap.Error(err), zap.String("event_id", eventID.String()))
		return 0, fmt.Errorf("count registrations for event %s: %w", eventID.String(), err)
	}

	return count, nil
}

func (r *registrationRepository) UpdateAttendance(ctx context.Context, reg *entity.Registration) error {
	query := `
		UPDATE registrations
		SET checked_in = ?, checked_out = ?, check_in_time = ?, check_out_time = ?
		WHERE event_id = ? AND id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		reg.CheckedIn,
		reg.CheckedOut,
		toNullMillis(reg.CheckInTime),
		toNullMillis(reg.CheckOutTime),
		reg.EventID.String(),
		reg.ID.String(),
	)
	if err != nil {
		r.log.Error("Failed to update attendance", zap.Error(err), zap.String("registration_id", reg.ID.String()))
		return fmt.Errorf("update attendance %s: %w", reg.ID.String(), err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("registration %s not found", reg.ID.String())
	}

	return nil
}

func scanRegistration(row scanner) (*entity.Registration, error) {
	var (
		reg                   entity.Registration
		id, eventID           string
		checkInAt, checkOutAt sql.NullInt64
		createdAt             int64
	)
	err := row.Scan(
		&id,
		&eventID,
		&reg.Name,
		&reg.Email,
		&reg.CollegeID,
		&reg.CheckedIn,
		&reg.CheckedOut,
		&checkInAt,
		&checkOutAt,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if reg.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse registration id %q: %w", id, err)
	}
	if reg.EventID, err = uuid.Parse(eventID); err != nil {
		return nil, fmt.Errorf("parse event id %q: %w", eventID, err)
	}
	reg.CheckInTime = fromNullMillis(checkInAt)
	reg.CheckOutTime = fromNullMillis(checkOutAt)
	reg.CreatedAt = fromMillis(createdAt)
	return &reg, nil
}
