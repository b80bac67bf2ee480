package repository

import (
	"context"
	"fmt"

	"event-checkin/internal/data/entity"
	"event-checkin/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RegistrationRepository interface {
	Create(ctx context.Context, reg *entity.Registration) error
	FindByID(ctx context.Context, eventID, id uuid.UUID) (*entity.Registration, error)
	// FindByIDForUpdate locks the registration row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, eventID, id uuid.UUID) (*entity.Registration, error)
	// FindByEmail returns the earliest registration for email under the event.
	FindByEmail(ctx context.Context, eventID uuid.UUID, email string) (*entity.Registration, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*entity.Registration, error)
	FindAll(ctx context.Context) ([]*entity.Registration, error)
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error)
	UpdateAttendance(ctx context.Context, reg *entity.Registration) error
}

type registrationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRegistrationRepository(db database.PgxIface, log *zap.Logger) RegistrationRepository {
	return &registrationRepository{
		db:  db,
		log: log.With(zap.String("repository", "registration")),
	}
}

const registrationColumns = `id, event_id, name, email, college_id, checked_in, checked_out,
       check_in_time, check_out_time, created_at`

func (r *registrationRepository) Create(ctx context.Context, reg *entity.Registration) error {
	query := `
		INSERT INTO registrations (id, event_id, name, email, college_id,
		                           checked_in, checked_out, check_in_time, check_out_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		reg.ID,
		reg.EventID,
		reg.Name,
		reg.Email,
		reg.CollegeID,
		reg.CheckedIn,
		reg.CheckedOut,
		reg.CheckInTime,
		reg.CheckOutTime,
		reg.CreatedAt,
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
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND id = $2`
	return r.findOne(ctx, query, eventID, id)
}

func (r *registrationRepository) FindByIDForUpdate(ctx context.Context, eventID, id uuid.UUID) (*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND id = $2 FOR UPDATE`
	return r.findOne(ctx, query, eventID, id)
}

func (r *registrationRepository) FindByEmail(ctx context.Context, eventID uuid.UUID, email string) (*entity.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1 AND email = $2
		ORDER BY seq ASC
		LIMIT 1
	`
	return r.findOne(ctx, query, eventID, email)
}

func (r *registrationRepository) findOne(ctx context.Context, query string, args ...any) (*entity.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find registration", zap.Error(err), zap.Any("args", args))
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return reg, nil
}

func (r *registrationRepository) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 ORDER BY seq ASC`
	return r.findMany(ctx, query, eventID)
}

// FindAll returns registrations of every event in insertion order
func (r *registrationRepository) FindAll(ctx context.Context) ([]*entity.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations ORDER BY seq ASC`
	return r.findMany(ctx, query)
}

func (r *registrationRepository) findMany(ctx context.Context, query string, args ...any) ([]*entity.Registration, error) {
	rows, err := r.db.Query(ctx, query, args...)
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
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate registration rows: %w", err)
	}

	return regs, nil
}

func (r *registrationRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE event_id = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, eventID).Scan(&count); err != nil {
		r.log.Error("Database error counting registrations",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return 0, fmt.Errorf("count registrations for event %s: %w", eventID.String(), err)
	}

	return count, nil
}

func (r *registrationRepository) UpdateAttendance(ctx context.Context, reg *entity.Registration) error {
	query := `
		UPDATE registrations
		SET checked_in = $3, checked_out = $4, check_in_time = $5, check_out_time = $6
		WHERE event_id = $1 AND id = $2
	`

	result, err := r.db.Exec(ctx, query,
		reg.EventID,
		reg.ID,
		reg.CheckedIn,
		reg.CheckedOut,
		reg.CheckInTime,
		reg.CheckOutTime,
	)
	if err != nil {
		r.log.Error("Failed to update attendance",
			zap.Error(err),
			zap.String("registration_id", reg.ID.String()),
		)
		return fmt.Errorf("update attendance %s: %w", reg.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("registration %s not found", reg.ID.String())
	}

	return nil
}

func scanRegistration(row pgx.Row) (*entity.Registration, error) {
	var reg entity.Registration
	err := row.Scan(
		&reg.ID,
		&reg.EventID,
		&reg.Name,
		&reg.Email,
		&reg.CollegeID,
		&reg.CheckedIn,
		&reg.CheckedOut,
		&reg.CheckInTime,
		&reg.CheckOutTime,
		&reg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
