package adaptor

import (
	"net"
	"net/http"

	"event-checkin/internal/dto/request"
	"event-checkin/internal/usecase"
	"event-checkin/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Authenticate handles POST /api/auth/admin (login or signup)
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req request.AdminAuthRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Authenticate(r.Context(), &req, clientMeta(r))
	if err != nil {
		writeServiceError(w, h.log, err, "admin "+req.Action)
		return
	}

	if req.Action == request.AuthActionSignup {
		utils.ResponseCreated(w, "Admin account created", resp.Admin)
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles POST /api/auth/logout (admin)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		writeServiceError(w, h.log, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

func clientMeta(r *http.Request) request.ClientMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return request.ClientMeta{
		UserAgent: r.UserAgent(),
		IPAddress: ip,
	}
}
