package adaptor

import (
	"net/http"

	"event-checkin/internal/dto/request"
	"event-checkin/internal/usecase"
	"event-checkin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EventHandler struct {
	service usecase.EventService
	otp     usecase.OTPService
	log     *zap.Logger
}

func NewEventHandler(service usecase.EventService, otp usecase.OTPService, log *zap.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		otp:     otp,
		log:     log.With(zap.String("handler", "event")),
	}
}

// ListEvents handles GET /api/events (public)
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list events")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// GetEvent handles GET /api/events/{eventId} (public)
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.GetEvent(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		writeServiceError(w, h.log, err, "get event")
		return
	}

	utils.ResponseSuccess(w, "success", event)
}

// CreateEvent handles POST /api/events (admin)
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req request.EventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	event, err := h.service.CreateEvent(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create event")
		return
	}

	utils.ResponseCreated(w, "Event created successfully", event)
}

// UpdateEvent handles PUT /api/events/{eventId} (admin)
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req request.EventUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	event, err := h.service.UpdateEvent(r.Context(), chi.URLParam(r, "eventId"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update event")
		return
	}

	utils.ResponseSuccess(w, "Event updated successfully", event)
}

// GenerateOTP handles POST /api/events/{eventId}/generate-otp (admin)
func (h *EventHandler) GenerateOTP(w http.ResponseWriter, r *http.Request) {
	batch, err := h.otp.GenerateForEvent(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		writeServiceError(w, h.log, err, "generate otp")
		return
	}

	utils.ResponseSuccess(w, "OTPs generated successfully", batch)
}
