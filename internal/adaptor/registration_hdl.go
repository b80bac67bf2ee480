package adaptor

import (
	"net/http"

	"event-checkin/internal/dto/request"
	"event-checkin/internal/usecase"
	"event-checkin/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RegistrationHandler struct {
	service usecase.RegistrationService
	log     *zap.Logger
}

func NewRegistrationHandler(service usecase.RegistrationService, log *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		service: service,
		log:     log.With(zap.String("handler", "registration")),
	}
}

// Register handles POST /api/events/{eventId}/register (public)
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegistrationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	registration, err := h.service.Register(r.Context(), chi.URLParam(r, "eventId"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful", registration)
}

// ListRegistrations handles GET /api/events/{eventId}/registrations (admin)
func (h *RegistrationHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	registrations, err := h.service.ListRegistrations(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		writeServiceError(w, h.log, err, "list registrations")
		return
	}

	utils.ResponseSuccess(w, "success", registrations)
}
