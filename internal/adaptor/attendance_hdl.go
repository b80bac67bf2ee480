package adaptor

import (
	"net/http"

	"event-checkin/internal/dto/request"
	"event-checkin/internal/usecase"
	"event-checkin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AttendanceHandler struct {
	service usecase.AttendanceService
	log     *zap.Logger
}

func NewAttendanceHandler(service usecase.AttendanceService, log *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		log:     log.With(zap.String("handler", "attendance")),
	}
}

// CheckIn handles POST /api/events/{eventId}/registrations/{registrationId}/checkin (public)
func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req request.AttendanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	// the path wins over any body value
	req.RegistrationID = chi.URLParam(r, "registrationId")
	req.Email = ""

	registration, err := h.service.CheckIn(r.Context(), chi.URLParam(r, "eventId"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "check in")
		return
	}

	utils.ResponseSuccess(w, "Checked in successfully", registration)
}

// CheckInByEmail handles POST /api/events/{eventId}/checkin (public)
func (h *AttendanceHandler) CheckInByEmail(w http.ResponseWriter, r *http.Request) {
	var req request.AttendanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.RegistrationID = ""

	registration, err := h.service.CheckIn(r.Context(), chi.URLParam(r, "eventId"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "check in by email")
		return
	}

	utils.ResponseSuccess(w, "Checked in successfully", registration)
}

// CheckOut handles POST /api/events/{eventId}/checkout (public)
func (h *AttendanceHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req request.AttendanceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	registration, err := h.service.CheckOut(r.Context(), chi.URLParam(r, "eventId"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "check out")
		return
	}

	utils.ResponseSuccess(w, "Checked out successfully", registration)
}
