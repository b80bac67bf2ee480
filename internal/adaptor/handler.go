package adaptor

import (
	"event-checkin/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Event        *EventHandler
	Registration *RegistrationHandler
	Attendance   *AttendanceHandler
	Auth         *AuthHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Event:        NewEventHandler(service.Event, service.OTP, log),
		Registration: NewRegistrationHandler(service.Registration, log),
		Attendance:   NewAttendanceHandler(service.Attendance, log),
		Auth:         NewAuthHandler(service.Auth, log),
	}
}
