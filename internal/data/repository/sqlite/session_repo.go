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

type sessionRepository struct {
	db  database.SQLIface
	log *zap.Logger
}

func NewSessionRepository(db database.SQLIface, log *zap.Logger) repository.SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session"), zap.String("driver", "sqlite")),
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	query := `
		INSERT INTO sessions (id, admin_id, token, user_agent, ip_address, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		session.ID.String(),
		session.AdminID.String(),
		session.Token.String(),
		toNullString(session.UserAgent),
		toNullString(session.IPAddress),
		toMillis(session.ExpiresAt),
		toMillis(session.CreatedAt),
	)
	if err != nil {
		r.log.Error("Failed to create session", zap.Error(err), zap.String("admin_id", session.AdminID.String()))
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *sessionRepository) FindValidSession(ctx context.Context, token string, now time.Time) (*entity.Session, error) {
	query := `
		SELECT id, admin_id, token, user_agent, ip_address, expires_at, revoked_at, created_at
		FROM sessions
		WHERE token = ? AND revoked_at IS NULL AND expires_at > ?
	`

	var (
		session              entity.Session
		id, adminID, tok     string
		userAgent, ipAddress sql.NullString
		expiresAt, createdAt int64
		revokedAt            sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, token, toMillis(now)).Scan(
		&id,
		&adminID,
		&tok,
		&userAgent,
		&ipAddress,
		&expiresAt,
		&revokedAt,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid session", zap.Error(err))
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	if session.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse session id %q: %w", id, err)
	}
	if session.AdminID, err = uuid.Parse(adminID); err != nil {
		return nil, fmt.Errorf("parse admin id %q: %w", adminID, err)
	}
	if session.Token, err = uuid.Parse(tok); err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	session.UserAgent = fromNullString(userAgent)
	session.IPAddress = fromNullString(ipAddress)
	session.ExpiresAt = fromMillis(expiresAt)
	session.RevokedAt = fromNullMillis(revokedAt)
	session.CreatedAt = fromMillis(createdAt)
	return &session, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, token string, now time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL`,
		toMillis(now), token,
	)
	if err != nil {
		r.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("session not found or already revoked")
	}

	return nil
}
