// Package sqlite implements the repositories over a single SQLite file.
// Timestamps are stored as UTC unix milliseconds.
package sqlite

import (
	"database/sql"
	"time"

	"event-checkin/internal/data/repository"
	"event-checkin/pkg/database"

	"go.uber.org/zap"
)

// NewRepository builds the SQLite-backed repositories.
func NewRepository(db database.SQLIface, log *zap.Logger) *repository.Repository {
	return &repository.Repository{
		Transactor:   db,
		Event:        NewEventRepository(db, log),
		Registration: NewRegistrationRepository(db, log),
		OTP:          NewOTPRepository(db, log),
		Admin:        NewAdminRepository(db, log),
		Session:      NewSessionRepository(db, log),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func toNullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func fromNullMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
