package wire

import (
	"net/http"

	"event-checkin/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireEvent registers routes relative to /api/events
func wireEvent(
	r chi.Router,
	eventHandler *adaptor.EventHandler,
	registrationHandler *adaptor.RegistrationHandler,
	adminOnly func(http.Handler) http.Handler,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/", eventHandler.ListEvents)
	r.Get("/{eventId}", eventHandler.GetEvent)
	r.Post("/{eventId}/register", registrationHandler.Register)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(adminOnly)

		r.Post("/", eventHandler.CreateEvent)
		r.Put("/{eventId}", eventHandler.UpdateEvent)
		r.Get("/{eventId}/registrations", registrationHandler.ListRegistrations)
		r.Post("/{eventId}/generate-otp", eventHandler.GenerateOTP)
	})
}
