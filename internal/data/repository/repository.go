package repository

import (
	"context"

	"event-checkin/pkg/database"

	"go.uber.org/zap"
)

// Transactor runs fn in a transaction; repositories called with the
// context passed to fn take part in it.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Repository struct {
	Transactor
	Event        EventRepository
	Registration RegistrationRepository
	OTP          OTPRepository
	Admin        AdminRepository
	Session      SessionRepository
}

// NewRepository builds the Postgres-backed repositories.
func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Transactor:   db,
		Event:        NewEventRepository(db, log),
		Registration: NewRegistrationRepository(db, log),
		OTP:          NewOTPRepository(db, log),
		Admin:        NewAdminRepository(db, log),
		Session:      NewSessionRepository(db, log),
	}
}
