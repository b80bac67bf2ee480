package repository

import (
	"context"
	"fmt"
	"time"

	"event-checkin/internal/data/entity"
	"event-checkin/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OTPRepository interface {
	CreateBatch(ctx context.Context, otps []*entity.OTP) error
	// Consume marks the newest matching unused, unexpired code as used and
	// returns it. The match and the update are one statement; it returns
	// (nil, nil) when nothing matched.
	Consume(ctx context.Context, eventID uuid.UUID, email, otpCode string, now time.Time) (*entity.OTP, error)
	// ConsumeByCode is Consume without the email filter.
	ConsumeByCode(ctx context.Context, eventID uuid.UUID, otpCode string, now time.Time) (*entity.OTP, error)
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) CreateBatch(ctx context.Context, otps []*entity.OTP) error {
	query := `
		INSERT INTO otps (id, event_id, email, otp_code, expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	return r.db.WithTx(ctx, func(txCtx context.Context) error {
		for _, otp := range otps {
			_, err := r.db.Exec(txCtx, query,
				otp.ID,
				otp.EventID,
				otp.Email,
				otp.OTPCode,
				otp.ExpiresAt,
				otp.IsUsed,
				otp.CreatedAt,
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
		SET is_used = true
		WHERE id = (
			SELECT id
			FROM otps
			WHERE event_id = $1
			  AND email = $2
			  AND otp_code = $3
			  AND is_used = false
			  AND expires_at > $4
			ORDER BY created_at DESC
			LIMIT 1
			FOR UPDATE
		)
		AND is_used = false
		RETURNING id, event_id, email, otp_code, expires_at, is_used, created_at
	`

	otp, err := r.consume(ctx, query, eventID, email, otpCode, now)
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
		SET is_used = true
		WHERE id = (
			SELECT id
			FROM otps
			WHERE event_id = $1
			  AND otp_code = $2
			  AND is_used = false
			  AND expires_at > $3
			ORDER BY created_at DESC
			LIMIT 1
			FOR UPDATE
		)
		AND is_used = false
		RETURNING id, event_id, email, otp_code, expires_at, is_used, created_at
	`

	otp, err := r.consume(ctx, query, eventID, otpCode, now)
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
	var otp entity.OTP
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&otp.ID,
		&otp.EventID,
		&otp.Email,
		&otp.OTPCode,
		&otp.ExpiresAt,
		&otp.IsUsed,
		&otp.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}
