package wire

import (
	"event-checkin/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireAttendance registers routes relative to /api/events
func wireAttendance(r chi.Router, attendanceHandler *adaptor.AttendanceHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/{eventId}/registrations/{registrationId}/checkin", attendanceHandler.CheckIn)
	r.Post("/{eventId}/checkin", attendanceHandler.CheckInByEmail)
	r.Post("/{eventId}/checkout", attendanceHandler.CheckOut)
}
