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

type adminRepository struct {
	db  database.SQLIface
	log *zap.Logger
}

func NewAdminRepository(db database.SQLIface, log *zap.Logger) repository.AdminRepository {
	return &adminRepository{
		db:  db,
		log: log.With(zap.String("repository", "admin"), zap.String("driver", "sqlite")),
	}
}

func (r *adminRepository) Create(ctx context.Context, admin *entity.Admin) error {
	query := `
		INSERT INTO admins (id, email, name, password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		admin.ID.String(),
		admin.Email,
		admin.Name,
		admin.PasswordHash,
		toMillis(admin.CreatedAt),
		toMillis(admin.UpdatedAt),
	)
	if err != nil {
		r.log.Error("Failed to create admin", zap.Error(err), zap.String("email", admin.Email))
		return fmt.Errorf("create admin %s: %w", admin.Email, err)
	}

	return nil
}

func (r *adminRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error) {
	return r.findOne(ctx, `SELECT id, email, name, password, created_at, updated_at FROM admins WHERE id = ?`, id.String())
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	return r.findOne(ctx, `SELECT id, email, name, password, created_at, updated_at FROM admins WHERE email = ?`, email)
}

func (r *adminRepository) findOne(ctx context.Context, query string, arg string) (*entity.Admin, error) {
	var (
		admin                entity.Admin
		id                   string
		createdAt, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&id,
		&admin.Email,
		&admin.Name,
		&admin.PasswordHash,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find admin", zap.Error(err))
		return nil, fmt.Errorf("find admin: %w", err)
	}

	if admin.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse admin id %q: %w", id, err)
	}
	admin.CreatedAt = fromMillis(createdAt)
	admin.UpdatedAt = fromMillis(updatedAt)
	return &admin, nil
}
