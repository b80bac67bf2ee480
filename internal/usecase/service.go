package usecase

import (
	"time"

	"event-checkin/internal/clock"
	"event-checkin/internal/data/repository"
	"event-checkin/internal/notify"
	"event-checkin/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	Event        EventService
	Registration RegistrationService
	OTP          OTPService
	Attendance   AttendanceService
}

func NewService(
	repo *repository.Repository,
	notifier notify.Notifier,
	clk clock.Clock,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	tokens := NewTokenIssuer(config.JWT.Secret, time.Duration(config.JWT.ExpiryHours)*time.Hour)
	otpTTL := time.Duration(config.OTP.ExpiryMinutes) * time.Minute

	return &Service{
		Auth:         NewAuthService(repo, tokens, clk, config.Admin, log),
		Event:        NewEventService(repo, clk, config.App.LenientReads, log),
		Registration: NewRegistrationService(repo, clk, config.App.UniqueEmail, log),
		OTP:          NewOTPService(repo, notifier, clk, otpTTL, log),
		Attendance:   NewAttendanceService(repo, clk, log),
	}
}
