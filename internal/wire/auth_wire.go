package wire

import (
	"net/http"

	"event-checkin/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, adminOnly func(http.Handler) http.Handler) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/auth/admin", authHandler.Authenticate)

	// ==================== ADMIN ROUTES ====================
	r.With(adminOnly).Post("/api/auth/logout", authHandler.Logout)
}
