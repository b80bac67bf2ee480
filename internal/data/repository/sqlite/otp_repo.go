package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"event-checkin/internal/data/entity"
	"event-checkin/internal/data/repository"
	"event-checkin/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type otpRepository struct {
	db  database.SQLIface
	log *zap.Logger
}

func NewOTPRepository(db database.SQLIface, log *zap.Logger) repository.OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp"), zap.String("driver", "sqlite")),
	}
}

func (r *otpRepository) CreateBatch(ctx context.Context, otps []*entity.OTP) error {
	query := `
		INSERT INTO otps (id, event_id, email, otp_code, expires_at, is_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	return r.db.WithTx(ctx, func(txCtx context.Context) error {
		for _, otp := range otps {
			_, err := r.db.ExecContext(txCtx, query,
				otp.ID.String(),
				otp.EventID.String(),
				otp.Email,
				otp.OTPCode,
				toMillis(otp.ExpiresAt),
				otp.IsUsed,
				toMillis(otp.CreatedAt),
			)
			if err != nil {
				r.log.Error("Failed to create OTP",
					zap.Error(err),
					zap.String("event_id", otp.EventID.String()),
					zap.String("email", otp.Email),
				)
				return fmt.Errorf("create OTP for %s: %w", otp.Email, err)
			}
		}
		return nil
	})
}

func (r *otpRepository) Consume(ctx context.Context, eventID uuid.UUID, email, otpCode string, now time.Time) (*entity.OTP, error) {
	query := `
		UPDATE otps
		SET is_used = 1
		WHERE id = (
			SELECT id
			FROM otps
			WHERE event_id = ?
			  AND email = ?
			  AND otp_code = ?
			  AND is_used = 0
			  AND expires_at > ?
			ORDER BY created_at DESC
			LIMIT 1
		)
		AND is_used = 0
		RETURNING id, event_id, email, otp_code, expires_at, is_used, created_at
	`

	otp, err := r.consume(ctx, query, eventID.String(), email, otpCode, toMillis(now))
	if err != nil {
		r.log.Error("Failed to consume OTP",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("consume OTP for %s: %w", email, err)
	}
	return otp, nil
}

func (r *otpRepository) ConsumeByCode(ctx context.Context, eventID uuid.UUID, otpCode string, now time.Time) (*entity.OTP, error) {
	query := `
		UPDATE otps
		SET is_used = 1
		WHERE id = (
			SELECT id
			FROM otps
			WHERE event_id = ?
			  AND otp_code = ?
			  AND is_used = 0
			  AND expires_at > ?
			ORDER BY created_at DESC
			LIMIT 1
		)
		AND is_used = 0
		RETURNING id, event_id, email, otp_code, expires_at, is_used, created_at
	`

	otp, err := r.consume(ctx, query, eventID.String(), otpCode, toMillis(now))
	if err != nil {
		r.log.Error("Failed to consume OTP by code",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("consume OTP by code: %w", err)
	}
	return otp, nil
}

// consume runs a conditional UPDATE ... RETURNING and maps no rows to (nil, nil).
func (r *otpRepository) consume(ctx context.Context, query string, args ...any) (*entity.OTP, error) {
	var (
		otp                  entity.OTP
		id, evID             string
		expiresAt, createdAt int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&id,
		&evID,
		&otp.Email,
		&otp.OTPCode,
		&expiresAt,
		&otp.IsUsed,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if otp.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse otp id %q: %w", id, err)
	}
	if otp.EventID, err = uuid.Parse(evID); err != nil {
		return nil, fmt.Errorf("parse event id %q: %w", evID, err)
	}
	otp.ExpiresAt = fromMillis(expiresAt)
	otp.CreatedAt = fromMillis(createdAt)
	return &otp, nil
}
